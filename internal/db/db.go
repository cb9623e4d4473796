package db

import (
	"context"
	"time"

	"github.com/Gatanot/GaussProject/internal/domain/document"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
)

// DocumentStore is the read side of the resource store the search core consumes.
// Stores are created by the composition root and shared by all requests.
type DocumentStore interface {
	Pinger
	DocumentSearcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// QueryLogStore is the append-only action log.
type QueryLogStore interface {
	Pinger
	QueryLog
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DocumentSearcher provides the hybrid lookup and popularity listing.
type DocumentSearcher interface {
	HybridSearch(ctx context.Context, q *HybridQuery) ([]HybridRow, error)
	TopDocuments(ctx context.Context, limit int) ([]document.Document, error)
}

// QueryLog appends events and aggregates query texts.
type QueryLog interface {
	Append(ctx context.Context, ev querylog.Event) error
	TopQueries(ctx context.Context, q *TopQuery) ([]querylog.Term, error)
}
