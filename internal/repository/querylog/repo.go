package querylog

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
	"github.com/Gatanot/GaussProject/internal/logger"
)

// VocabularyMinLen is the shortest query text, in runes, worth suggesting.
const VocabularyMinLen = 2

// store is the consumer interface for the action log (ISP).
type store interface {
	Append(ctx context.Context, ev querylog.Event) error
	TopQueries(ctx context.Context, q *db.TopQuery) ([]querylog.Term, error)
}

// Repo implements usecase/search.Sampler, usecase/search.Recorder's sink
// and usecase/trending.Searches.
type Repo struct {
	store store
}

// New creates a query-log repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Append writes one event.
func (r *Repo) Append(ctx context.Context, ev querylog.Event) error {
	if err := r.store.Append(ctx, ev); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrLogWriteFailed, err)
	}
	return nil
}

// Sample returns the limit most frequent past queries at least
// VocabularyMinLen runes long. Store failures yield an empty vocabulary.
func (r *Repo) Sample(ctx context.Context, limit int) []querylog.Term {
	terms, err := r.top(ctx, limit, VocabularyMinLen)
	if err != nil {
		logger.FromContext(ctx).Warn("vocabulary sample failed", zap.Error(err))
		return []querylog.Term{}
	}
	return terms
}

// Top returns the limit most frequent non-empty past queries.
func (r *Repo) Top(ctx context.Context, limit int) ([]querylog.Term, error) {
	return r.top(ctx, limit, 1)
}

func (r *Repo) top(ctx context.Context, limit, minLen int) ([]querylog.Term, error) {
	terms, err := r.store.TopQueries(ctx, &db.TopQuery{
		Kind:   querylog.KindSearch,
		Limit:  limit,
		MinLen: minLen,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: top queries: %w", domain.ErrStoreUnavailable, err)
	}

	// Drivers differ in tie order; fix it here so suggestions are deterministic.
	out := make([]querylog.Term, 0, len(terms))
	for _, t := range terms {
		if querylog.Eligible(t.Text, minLen) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return querylog.MoreFrequent(out[i], out[j]) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
