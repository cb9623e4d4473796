// Package breaker decorates stores with a circuit breaker so a failing
// database sheds load instead of stalling every request.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain/document"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
)

// Compile-time interface checks.
var (
	_ db.DocumentStore = (*DocumentStore)(nil)
	_ db.QueryLogStore = (*QueryLogStore)(nil)
)

// Config controls when the breaker trips and how long it stays open.
type Config struct {
	MaxRequests  uint32        // trial requests allowed while half-open
	Interval     time.Duration // counter reset period while closed, 0 keeps counts
	Timeout      time.Duration // open duration before half-open
	MinRequests  uint32        // requests observed before the ratio is considered
	FailureRatio float64       // trip threshold in (0, 1]
}

func (c Config) withDefaults() Config {
	if c.MaxRequests == 0 {
		c.MaxRequests = 1
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MinRequests == 0 {
		c.MinRequests = 5
	}
	if c.FailureRatio <= 0 || c.FailureRatio > 1 {
		c.FailureRatio = 0.6
	}
	return c
}

func newBreaker(name string, cfg Config, log *zap.Logger) *gobreaker.CircuitBreaker {
	cfg = cfg.withDefaults()
	if log == nil {
		log = zap.NewNop()
	}
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		// Caller mistakes say nothing about store health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, db.ErrInvalidArgs)
		},
	})
}

// execute runs fn through cb. Rejections while open or half-open surface as
// db.ErrNotReady tagged with op.
func execute[T any](cb *gobreaker.CircuitBreaker, op string, fn func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, &db.Error{Op: op, Err: fmt.Errorf("%w: %w", db.ErrNotReady, err)}
		}
		return zero, err
	}
	return out.(T), nil
}

// DocumentStore guards a db.DocumentStore. Ping bypasses the breaker so
// health checks report the real connection state.
type DocumentStore struct {
	next db.DocumentStore
	cb   *gobreaker.CircuitBreaker
}

// NewDocumentStore wraps next.
func NewDocumentStore(next db.DocumentStore, cfg Config, log *zap.Logger) *DocumentStore {
	return &DocumentStore{next: next, cb: newBreaker("documents", cfg, log)}
}

// State reports the breaker state.
func (s *DocumentStore) State() gobreaker.State { return s.cb.State() }

func (s *DocumentStore) HybridSearch(ctx context.Context, q *db.HybridQuery) ([]db.HybridRow, error) {
	return execute(s.cb, db.OpHybridSearch, func() ([]db.HybridRow, error) {
		return s.next.HybridSearch(ctx, q)
	})
}

func (s *DocumentStore) TopDocuments(ctx context.Context, limit int) ([]document.Document, error) {
	return execute(s.cb, db.OpTopDocuments, func() ([]document.Document, error) {
		return s.next.TopDocuments(ctx, limit)
	})
}

func (s *DocumentStore) Ping(ctx context.Context) error { return s.next.Ping(ctx) }
func (s *DocumentStore) Close()                         { s.next.Close() }

func (s *DocumentStore) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return s.next.WaitForReady(ctx, timeout)
}

// QueryLogStore guards a db.QueryLogStore.
type QueryLogStore struct {
	next db.QueryLogStore
	cb   *gobreaker.CircuitBreaker
}

// NewQueryLogStore wraps next.
func NewQueryLogStore(next db.QueryLogStore, cfg Config, log *zap.Logger) *QueryLogStore {
	return &QueryLogStore{next: next, cb: newBreaker("querylog", cfg, log)}
}

// State reports the breaker state.
func (s *QueryLogStore) State() gobreaker.State { return s.cb.State() }

func (s *QueryLogStore) Append(ctx context.Context, ev querylog.Event) error {
	_, err := execute(s.cb, db.OpAppend, func() (struct{}, error) {
		return struct{}{}, s.next.Append(ctx, ev)
	})
	return err
}

func (s *QueryLogStore) TopQueries(ctx context.Context, q *db.TopQuery) ([]querylog.Term, error) {
	return execute(s.cb, db.OpTopQueries, func() ([]querylog.Term, error) {
		return s.next.TopQueries(ctx, q)
	})
}

func (s *QueryLogStore) Ping(ctx context.Context) error { return s.next.Ping(ctx) }
func (s *QueryLogStore) Close()                         { s.next.Close() }

func (s *QueryLogStore) WaitForReady(ctx context.Context, timeout time.Duration) error {
	return s.next.WaitForReady(ctx, timeout)
}
