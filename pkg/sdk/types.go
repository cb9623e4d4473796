package gauss

import (
	"time"

	domdoc "github.com/Gatanot/GaussProject/internal/domain/document"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
	"github.com/Gatanot/GaussProject/internal/domain/search/response"
	"github.com/Gatanot/GaussProject/internal/domain/search/result"
)

// Document is a shared resource indexed by the memory driver.
type Document struct {
	ID            int64
	Title         string
	Body          string
	ViewCount     int64
	DownloadCount int64
	CreatedAt     time.Time
	CourseName    string
	CourseTeacher string
	AuthorName    string
}

// SearchOptions tunes a single search.
type SearchOptions struct {
	Limit      int    // 0 selects the default
	ActorID    *int64 // recorded with the query; nil for anonymous
	SourceAddr string
}

// Result is a single ranked hit.
type Result struct {
	ID            int64
	Title         string
	Snippet       string // highlighted with <mark> tags on full-text hits
	Score         float64
	CourseName    string
	CourseTeacher string
	AuthorName    string
	ViewCount     int64
	DownloadCount int64
	CreatedAt     time.Time
}

// SearchResponse is the outcome of Client.Search.
type SearchResponse struct {
	Query   string
	Results []Result
	Total   int
	// Suggestion is a spelling correction, set only when Results is empty.
	Suggestion *string
	// Error is the user-facing message when the store failed.
	Error string
}

// HotResource is a popular resource on the trending page.
type HotResource struct {
	ID            int64
	Title         string
	CourseName    string
	AuthorName    string
	ViewCount     int64
	DownloadCount int64
	CreatedAt     time.Time
}

// HotSearch is a frequently searched query.
type HotSearch struct {
	Query string
	Count int64
}

// Trending holds the home-page lists. Both are empty, never nil, when the
// store is unavailable.
type Trending struct {
	Resources []HotResource
	Searches  []HotSearch
}

func toDomainDocuments(docs []Document) []domdoc.Document {
	out := make([]domdoc.Document, len(docs))
	for i := range docs {
		d := &docs[i]
		out[i] = domdoc.Document{
			ID:            d.ID,
			Title:         d.Title,
			Body:          d.Body,
			ViewCount:     d.ViewCount,
			DownloadCount: d.DownloadCount,
			CreatedAt:     d.CreatedAt,
			CourseName:    d.CourseName,
			CourseTeacher: d.CourseTeacher,
			AuthorName:    d.AuthorName,
		}
	}
	return out
}

func resultFromDomain(r *result.Result) Result {
	return Result{
		ID:            r.ID(),
		Title:         r.Title(),
		Snippet:       r.Snippet(),
		Score:         r.Score(),
		CourseName:    r.CourseName(),
		CourseTeacher: r.CourseTeacher(),
		AuthorName:    r.AuthorName(),
		ViewCount:     r.ViewCount(),
		DownloadCount: r.DownloadCount(),
		CreatedAt:     r.CreatedAt(),
	}
}

func responseFromDomain(resp *response.Response) SearchResponse {
	out := SearchResponse{
		Query:   resp.Query,
		Results: make([]Result, len(resp.Results)),
		Total:   resp.Total,
		Error:   resp.Error,
	}
	for i := range resp.Results {
		out.Results[i] = resultFromDomain(&resp.Results[i])
	}
	if resp.HasSuggestion() {
		s := resp.Suggestion
		out.Suggestion = &s
	}
	return out
}

func hotResourceFromDomain(d *domdoc.Document) HotResource {
	return HotResource{
		ID:            d.ID,
		Title:         d.Title,
		CourseName:    d.CourseName,
		AuthorName:    d.AuthorName,
		ViewCount:     d.ViewCount,
		DownloadCount: d.DownloadCount,
		CreatedAt:     d.CreatedAt,
	}
}

func hotSearchFromDomain(t querylog.Term) HotSearch {
	return HotSearch{Query: t.Text, Count: t.Frequency}
}
