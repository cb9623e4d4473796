package breaker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain/document"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
)

type fakeStore struct {
	searchErr error
	appendErr error
	calls     int
	pings     int
}

func (f *fakeStore) HybridSearch(_ context.Context, _ *db.HybridQuery) ([]db.HybridRow, error) {
	f.calls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return []db.HybridRow{{ID: 1}}, nil
}

func (f *fakeStore) TopDocuments(_ context.Context, limit int) ([]document.Document, error) {
	f.calls++
	return make([]document.Document, limit), nil
}

func (f *fakeStore) Append(_ context.Context, _ querylog.Event) error {
	f.calls++
	return f.appendErr
}

func (f *fakeStore) TopQueries(_ context.Context, _ *db.TopQuery) ([]querylog.Term, error) {
	f.calls++
	return []querylog.Term{{Text: "os", Frequency: 2}}, nil
}

func (f *fakeStore) Ping(_ context.Context) error { f.pings++; return nil }
func (f *fakeStore) Close()                       {}
func (f *fakeStore) WaitForReady(_ context.Context, _ time.Duration) error {
	return nil
}

var tight = Config{MinRequests: 2, FailureRatio: 0.5, Timeout: time.Minute}

func TestDocumentStore_PassThrough(t *testing.T) {
	inner := &fakeStore{}
	s := NewDocumentStore(inner, tight, nil)

	rows, err := s.HybridSearch(context.Background(), &db.HybridQuery{Query: "os", Limit: 5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != 1 {
		t.Errorf("rows = %+v", rows)
	}

	docs, err := s.TopDocuments(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(docs) != 3 {
		t.Errorf("expected 3 docs, got %d", len(docs))
	}
}

func TestDocumentStore_TripsAndRejects(t *testing.T) {
	inner := &fakeStore{searchErr: errors.New("connection reset")}
	s := NewDocumentStore(inner, tight, nil)
	ctx := context.Background()
	q := &db.HybridQuery{Query: "os", Limit: 5}

	for range 2 {
		if _, err := s.HybridSearch(ctx, q); err == nil {
			t.Fatal("expected store error")
		}
	}
	if s.State() != gobreaker.StateOpen {
		t.Fatalf("expected open breaker, got %s", s.State())
	}

	_, err := s.HybridSearch(ctx, q)
	if !errors.Is(err, db.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpHybridSearch {
		t.Errorf("expected db.Error with op %s, got %v", db.OpHybridSearch, err)
	}
	if inner.calls != 2 {
		t.Errorf("expected 2 calls to reach the store, got %d", inner.calls)
	}
}

func TestDocumentStore_InvalidArgsDoNotTrip(t *testing.T) {
	inner := &fakeStore{searchErr: fmt.Errorf("%w: limit", db.ErrInvalidArgs)}
	s := NewDocumentStore(inner, tight, nil)

	for range 5 {
		_, _ = s.HybridSearch(context.Background(), &db.HybridQuery{})
	}
	if s.State() != gobreaker.StateClosed {
		t.Errorf("expected closed breaker, got %s", s.State())
	}
}

func TestDocumentStore_PingBypassesBreaker(t *testing.T) {
	inner := &fakeStore{searchErr: errors.New("down")}
	s := NewDocumentStore(inner, tight, nil)
	for range 2 {
		_, _ = s.HybridSearch(context.Background(), &db.HybridQuery{Limit: 1})
	}

	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping should pass through: %v", err)
	}
	if inner.pings != 1 {
		t.Errorf("expected 1 ping, got %d", inner.pings)
	}
}

func TestQueryLogStore(t *testing.T) {
	inner := &fakeStore{appendErr: errors.New("disk full")}
	s := NewQueryLogStore(inner, tight, nil)
	ctx := context.Background()
	ev := querylog.NewSearchEvent("os", nil, "", time.Now())

	for range 2 {
		if err := s.Append(ctx, ev); err == nil {
			t.Fatal("expected append error")
		}
	}
	if err := s.Append(ctx, ev); !errors.Is(err, db.ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}

	// Reads share the same breaker.
	if _, err := s.TopQueries(ctx, &db.TopQuery{Limit: 1}); !errors.Is(err, db.ErrNotReady) {
		t.Errorf("expected ErrNotReady, got %v", err)
	}
}

func TestConfig_Defaults(t *testing.T) {
	c := Config{}.withDefaults()
	if c.MaxRequests != 1 || c.MinRequests != 5 || c.FailureRatio != 0.6 || c.Timeout != 30*time.Second {
		t.Errorf("unexpected defaults: %+v", c)
	}
}
