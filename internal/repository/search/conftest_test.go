package search

import (
	"context"
	"testing"

	"github.com/Gatanot/GaussProject/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hybridSearchFn func(ctx context.Context, q *db.HybridQuery) ([]db.HybridRow, error)
}

func (m *mockStore) HybridSearch(ctx context.Context, q *db.HybridQuery) ([]db.HybridRow, error) {
	if m.hybridSearchFn != nil {
		return m.hybridSearchFn(ctx, q)
	}
	return nil, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}
