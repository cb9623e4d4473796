package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain/document"
	"github.com/Gatanot/GaussProject/internal/domain/search/result"
	"github.com/Gatanot/GaussProject/internal/domain/search/snippet"
)

func lower(s string) string { return strings.ToLower(s) }

// HybridSearch matches documents whose lexemes contain every query lexeme,
// or whose title or body contains the query as a case-insensitive substring.
func (s *Store) HybridSearch(_ context.Context, q *db.HybridQuery) ([]db.HybridRow, error) {
	if q.Limit <= 0 {
		return nil, &db.Error{Op: db.OpHybridSearch, Err: fmt.Errorf("%w: limit must be positive", db.ErrInvalidArgs)}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	lexemes := s.an.lexemes(q.Query)
	needle := lower(q.Query)

	var rows []db.HybridRow
	for i := range s.docs {
		d := &s.docs[i]
		textMatch := matchesAll(d.freq, lexemes)
		if !textMatch && !strings.Contains(d.lowTitle, needle) && !strings.Contains(d.lowBody, needle) {
			continue
		}
		row := db.HybridRow{
			ID:            d.doc.ID,
			Title:         d.doc.Title,
			Excerpt:       d.doc.Body,
			ViewCount:     d.doc.ViewCount,
			DownloadCount: d.doc.DownloadCount,
			CreatedAt:     d.doc.CreatedAt,
			CourseName:    d.doc.CourseName,
			CourseTeacher: d.doc.CourseTeacher,
			AuthorName:    d.doc.AuthorName,
			TextMatch:     textMatch,
		}
		if textMatch {
			row.Relevance = relevance(d.freq, lexemes)
			row.Headline = s.headline(d.doc.Body, lexemes)
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		si := result.ScoreFor(rows[i].TextMatch, rows[i].Relevance)
		sj := result.ScoreFor(rows[j].TextMatch, rows[j].Relevance)
		if si != sj {
			return si > sj
		}
		if rows[i].ViewCount != rows[j].ViewCount {
			return rows[i].ViewCount > rows[j].ViewCount
		}
		return rows[i].ID < rows[j].ID
	})
	if len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	return rows, nil
}

// TopDocuments lists documents by weighted popularity.
func (s *Store) TopDocuments(_ context.Context, limit int) ([]document.Document, error) {
	if limit <= 0 {
		return nil, &db.Error{Op: db.OpTopDocuments, Err: fmt.Errorf("%w: limit must be positive", db.ErrInvalidArgs)}
	}

	s.mu.RLock()
	out := make([]document.Document, 0, len(s.docs))
	for i := range s.docs {
		out = append(out, s.docs[i].doc)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return document.MorePopular(&out[i], &out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// matchesAll mirrors plainto_tsquery: every lexeme must occur. A query
// made only of stopwords matches nothing.
func matchesAll(freq map[string]int, lexemes []string) bool {
	if len(lexemes) == 0 {
		return false
	}
	for _, l := range lexemes {
		if freq[l] == 0 {
			return false
		}
	}
	return true
}

// relevance sums saturated term frequencies over len(lexemes)+1, which
// keeps it in (0, 1).
func relevance(freq map[string]int, lexemes []string) float64 {
	var sum float64
	for _, l := range lexemes {
		tf := float64(freq[l])
		sum += tf / (tf + 1)
	}
	return sum / float64(len(lexemes)+1)
}

// headline returns a MaxWords window of body starting a few words before the
// first query hit, with hits wrapped in highlight markers. Bodies without a
// hit yield their first MinWords words.
func (s *Store) headline(body string, lexemes []string) string {
	words := s.an.tokens(body)
	if len(words) == 0 {
		return ""
	}
	want := make(map[string]struct{}, len(lexemes))
	for _, l := range lexemes {
		want[l] = struct{}{}
	}

	first := -1
	for i, w := range words {
		if _, ok := want[w.lexeme]; ok {
			first = i
			break
		}
	}

	var from, to int
	if first < 0 {
		to = min(len(words), snippet.MinWords)
	} else {
		from = max(0, first-snippet.MinWords/3)
		to = min(len(words), from+snippet.MaxWords)
	}

	var b strings.Builder
	pos := words[from].start
	for _, w := range words[from:to] {
		b.WriteString(body[pos:w.start])
		if _, ok := want[w.lexeme]; ok {
			b.WriteString(snippet.MarkStart)
			b.WriteString(body[w.start:w.end])
			b.WriteString(snippet.MarkStop)
		} else {
			b.WriteString(body[w.start:w.end])
		}
		pos = w.end
	}
	return b.String()
}
