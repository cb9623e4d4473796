package search

import (
	"context"
	"fmt"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/Gatanot/GaussProject/internal/domain/querylog"
	"github.com/Gatanot/GaussProject/internal/logger"
	"github.com/Gatanot/GaussProject/internal/metrics"
)

// AsyncRecorder writes query-log events on a bounded goroutine pool.
// A saturated pool drops the event instead of queueing it behind the caller.
type AsyncRecorder struct {
	pool *ants.Pool
	sink Sink
	log  *zap.Logger
}

// NewAsyncRecorder creates a recorder with size workers.
func NewAsyncRecorder(sink Sink, size int, log *zap.Logger) (*AsyncRecorder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	pool, err := ants.NewPool(size,
		ants.WithNonblocking(true),
		ants.WithPanicHandler(func(p any) {
			log.Error("query log writer panicked", zap.Any("panic", p))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create query log pool: %w", err)
	}
	return &AsyncRecorder{pool: pool, sink: sink, log: log}, nil
}

// Record schedules ev for writing and returns immediately. The write outlives
// request cancellation but keeps request-scoped values such as the logger.
func (r *AsyncRecorder) Record(ctx context.Context, ev querylog.Event) {
	ctx = context.WithoutCancel(ctx)
	l := r.loggerFor(ctx)

	err := r.pool.Submit(func() {
		if err := r.sink.Append(ctx, ev); err != nil {
			metrics.QueryLogWritesTotal.WithLabelValues(metrics.WriteError).Inc()
			l.Warn("query log write failed", logger.Query(ev.Query), logger.Actor(ev.ActorID), zap.Error(err))
			return
		}
		metrics.QueryLogWritesTotal.WithLabelValues(metrics.WriteOK).Inc()
	})
	if err != nil {
		metrics.QueryLogWritesTotal.WithLabelValues(metrics.WriteDropped).Inc()
		l.Warn("query log write dropped", logger.Query(ev.Query), zap.Error(err))
	}
}

// Running reports busy workers.
func (r *AsyncRecorder) Running() int { return r.pool.Running() }

// Release waits up to timeout for pending writes, then stops the pool.
func (r *AsyncRecorder) Release(timeout time.Duration) error {
	if err := r.pool.ReleaseTimeout(timeout); err != nil {
		return fmt.Errorf("release query log pool: %w", err)
	}
	return nil
}

func (r *AsyncRecorder) loggerFor(ctx context.Context) *zap.Logger {
	if l := logger.FromContext(ctx); l.Core().Enabled(zap.ErrorLevel) {
		return l
	}
	return r.log
}
