package result

import (
	"sort"
	"time"
)

// Score components of the hybrid ranking formula.
const (
	// TextMatchBoost is added to text-search relevance so that every
	// text-search hit outranks every substring-only hit.
	TextMatchBoost = 1.0
	// SubstringScore is the flat score of substring-only hits.
	SubstringScore = 0.5
)

// ScoreFor returns the rank score of a matched document.
func ScoreFor(textMatch bool, relevance float64) float64 {
	if textMatch {
		return relevance + TextMatchBoost
	}
	return SubstringScore
}

// Meta carries the display fields of a hit.
type Meta struct {
	CourseName    string
	CourseTeacher string
	AuthorName    string
	ViewCount     int64
	DownloadCount int64
	CreatedAt     time.Time
}

// Result is a single search hit.
type Result struct {
	id      int64
	title   string
	snippet string
	score   float64
	meta    Meta
}

// New creates a search result.
func New(id int64, title, snippet string, score float64, meta Meta) Result {
	return Result{id: id, title: title, snippet: snippet, score: score, meta: meta}
}

// ID returns the document identifier.
func (r *Result) ID() int64 { return r.id }

// Title returns the document title.
func (r *Result) Title() string { return r.title }

// Snippet returns the highlighted excerpt or body prefix.
func (r *Result) Snippet() string { return r.snippet }

// Score returns the rank score.
func (r *Result) Score() float64 { return r.score }

// CourseName returns the name of the course the document belongs to.
func (r *Result) CourseName() string { return r.meta.CourseName }

// CourseTeacher returns the course teacher, empty when unknown.
func (r *Result) CourseTeacher() string { return r.meta.CourseTeacher }

// AuthorName returns the uploader's display name.
func (r *Result) AuthorName() string { return r.meta.AuthorName }

// ViewCount returns the view counter at query time.
func (r *Result) ViewCount() int64 { return r.meta.ViewCount }

// DownloadCount returns the download counter at query time.
func (r *Result) DownloadCount() int64 { return r.meta.DownloadCount }

// CreatedAt returns the upload time.
func (r *Result) CreatedAt() time.Time { return r.meta.CreatedAt }

// Less orders by score desc, then view count desc, then ID asc.
func Less(a, b *Result) bool {
	if a.score != b.score {
		return a.score > b.score
	}
	if a.meta.ViewCount != b.meta.ViewCount {
		return a.meta.ViewCount > b.meta.ViewCount
	}
	return a.id < b.id
}

// Sort orders results in place by rank.
func Sort(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool { return Less(&rs[i], &rs[j]) })
}
