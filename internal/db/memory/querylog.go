package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
)

// Append records ev.
func (s *Store) Append(_ context.Context, ev querylog.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpAppend, Err: db.ErrNotReady}
	}
	s.events = append(s.events, ev)
	return nil
}

// TopQueries counts query texts of the given kind.
func (s *Store) TopQueries(_ context.Context, q *db.TopQuery) ([]querylog.Term, error) {
	if q.Limit <= 0 {
		return nil, &db.Error{Op: db.OpTopQueries, Err: fmt.Errorf("%w: limit must be positive", db.ErrInvalidArgs)}
	}
	minLen := max(q.MinLen, 1)

	s.mu.RLock()
	counts := make(map[string]int64)
	for _, ev := range s.events {
		if ev.Kind != q.Kind || !querylog.Eligible(ev.Query, minLen) {
			continue
		}
		counts[ev.Query]++
	}
	s.mu.RUnlock()

	terms := make([]querylog.Term, 0, len(counts))
	for text, n := range counts {
		terms = append(terms, querylog.Term{Text: text, Frequency: n})
	}
	sort.Slice(terms, func(i, j int) bool { return querylog.MoreFrequent(terms[i], terms[j]) })
	if len(terms) > q.Limit {
		terms = terms[:q.Limit]
	}
	return terms, nil
}
