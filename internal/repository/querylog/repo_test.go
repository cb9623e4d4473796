package querylog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Gatanot/GaussProject/internal/db"
	"github.com/Gatanot/GaussProject/internal/domain"
	"github.com/Gatanot/GaussProject/internal/domain/querylog"
)

func TestAppend(t *testing.T) {
	repo, ms := newTestRepo(t)
	var got querylog.Event
	ms.appendFn = func(_ context.Context, ev querylog.Event) error {
		got = ev
		return nil
	}

	ev := querylog.NewSearchEvent("os", nil, "10.0.0.1", time.Now())
	if err := repo.Append(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Query != "os" || got.Kind != querylog.KindSearch {
		t.Errorf("unexpected event: %+v", got)
	}
}

func TestAppend_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.appendFn = func(_ context.Context, _ querylog.Event) error {
		return errors.New("insert failed")
	}

	err := repo.Append(context.Background(), querylog.Event{})
	if !errors.Is(err, domain.ErrLogWriteFailed) {
		t.Errorf("expected ErrLogWriteFailed, got %v", err)
	}
}

func TestSample(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.topQueriesFn = func(_ context.Context, q *db.TopQuery) ([]querylog.Term, error) {
		if q.Kind != querylog.KindSearch || q.Limit != 50 || q.MinLen != VocabularyMinLen {
			t.Errorf("unexpected query: %+v", q)
		}
		return []querylog.Term{
			{Text: "数据库", Frequency: 3},
			{Text: "x", Frequency: 9},
			{Text: "算法", Frequency: 3},
			{Text: "os", Frequency: 7},
		}, nil
	}

	terms := repo.Sample(context.Background(), 50)
	want := []querylog.Term{
		{Text: "os", Frequency: 7},
		{Text: "数据库", Frequency: 3},
		{Text: "算法", Frequency: 3},
	}
	if len(terms) != len(want) {
		t.Fatalf("expected %v, got %v", want, terms)
	}
	for i := range want {
		if terms[i] != want[i] {
			t.Errorf("terms[%d] = %v, want %v", i, terms[i], want[i])
		}
	}
}

func TestSample_Trims(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.topQueriesFn = func(_ context.Context, _ *db.TopQuery) ([]querylog.Term, error) {
		return []querylog.Term{{Text: "aa", Frequency: 1}, {Text: "bb", Frequency: 2}, {Text: "cc", Frequency: 3}}, nil
	}

	terms := repo.Sample(context.Background(), 2)
	if len(terms) != 2 || terms[0].Text != "cc" || terms[1].Text != "bb" {
		t.Errorf("unexpected terms: %v", terms)
	}
}

func TestSample_ErrorYieldsEmpty(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.topQueriesFn = func(_ context.Context, _ *db.TopQuery) ([]querylog.Term, error) {
		return nil, errors.New("timeout")
	}

	terms := repo.Sample(context.Background(), 50)
	if terms == nil || len(terms) != 0 {
		t.Errorf("expected empty non-nil vocabulary, got %v", terms)
	}
}

func TestTop(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.topQueriesFn = func(_ context.Context, q *db.TopQuery) ([]querylog.Term, error) {
		if q.MinLen != 1 {
			t.Errorf("expected MinLen 1, got %d", q.MinLen)
		}
		return []querylog.Term{{Text: "x", Frequency: 4}, {Text: " ", Frequency: 9}}, nil
	}

	terms, err := repo.Top(context.Background(), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(terms) != 1 || terms[0].Text != "x" {
		t.Errorf("unexpected terms: %v", terms)
	}
}

func TestTop_Error(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.topQueriesFn = func(_ context.Context, _ *db.TopQuery) ([]querylog.Term, error) {
		return nil, errors.New("timeout")
	}

	if _, err := repo.Top(context.Background(), 5); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}
