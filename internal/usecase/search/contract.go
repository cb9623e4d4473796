package search

import (
	"context"

	"github.com/Gatanot/GaussProject/internal/domain/querylog"
	"github.com/Gatanot/GaussProject/internal/domain/search/result"
)

// Ranker runs the hybrid lookup and returns ordered results.
type Ranker interface {
	Rank(ctx context.Context, query string, limit int) ([]result.Result, error)
}

// Sampler returns the most frequent past queries. Failures yield an empty slice.
type Sampler interface {
	Sample(ctx context.Context, limit int) []querylog.Term
}

// Recorder schedules a query-log write. It must not block the caller.
type Recorder interface {
	Record(ctx context.Context, ev querylog.Event)
}

// Sink persists query-log events.
type Sink interface {
	Append(ctx context.Context, ev querylog.Event) error
}
