package health

import (
	"context"
	"errors"
	"testing"
)

// --- Mocks ---

type mockPinger struct {
	err   error
	calls int
}

func (m *mockPinger) Ping(_ context.Context) error {
	m.calls++
	return m.err
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks[ComponentDatabase] != CheckOK {
		t.Errorf("expected database %q, got %q", CheckOK, r.Checks[ComponentDatabase])
	}
	if r.Checks[ComponentQueryLog] != CheckOK {
		t.Errorf("expected querylog %q, got %q", CheckOK, r.Checks[ComponentQueryLog])
	}
}

func TestCheck_DBError(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("conn refused")}, &mockPinger{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentDatabase] != CheckError {
		t.Errorf("expected database %q, got %q", CheckError, r.Checks[ComponentDatabase])
	}
	if r.Checks[ComponentQueryLog] != CheckOK {
		t.Errorf("expected querylog %q, got %q", CheckOK, r.Checks[ComponentQueryLog])
	}
}

func TestCheck_QueryLogError(t *testing.T) {
	svc := New(&mockPinger{}, &mockPinger{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks[ComponentQueryLog] != CheckError {
		t.Errorf("expected querylog %q, got %q", CheckError, r.Checks[ComponentQueryLog])
	}
}

func TestCheck_AllFailing(t *testing.T) {
	svc := New(&mockPinger{err: errors.New("down")}, &mockPinger{err: errors.New("down")})
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
}

func TestCheck_NilQueryLog(t *testing.T) {
	db := &mockPinger{}
	svc := New(db, nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks[ComponentQueryLog]; ok {
		t.Error("querylog check should be absent")
	}
	if db.calls != 1 {
		t.Errorf("expected 1 ping, got %d", db.calls)
	}
}
