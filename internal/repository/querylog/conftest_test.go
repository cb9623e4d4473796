package querylog

import (
	"context"
	"testing"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	appendFn     func(ctx context.Context, ev querylog.Event) error
	topQueriesFn func(ctx context.Context, q *db.TopQuery) ([]querylog.Term, error)
}

func (m *mockStore) Append(ctx context.Context, ev querylog.Event) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, ev)
	}
	return nil
}

func (m *mockStore) TopQueries(ctx context.Context, q *db.TopQuery) ([]querylog.Term, error) {
	if m.topQueriesFn != nil {
		return m.topQueriesFn(ctx, q)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}
