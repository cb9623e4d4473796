package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestActorMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   *int64
	}{
		{"missing", "", nil},
		{"valid", "42", ptr(int64(42))},
		{"padded", " 7 ", ptr(int64(7))},
		{"not a number", "alice", nil},
		{"zero", "0", nil},
		{"negative", "-3", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got *int64
			h := ActorMiddleware("X-User")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				got = ActorFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/search", http.NoBody)
			req = req.WithContext(markTrusted(req.Context()))
			if tc.header != "" {
				req.Header.Set("X-User", tc.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			switch {
			case tc.want == nil && got != nil:
				t.Errorf("expected anonymous, got %d", *got)
			case tc.want != nil && (got == nil || *got != *tc.want):
				t.Errorf("expected %d, got %v", *tc.want, got)
			}
		})
	}
}

func TestActorMiddleware_UntrustedHeaderIgnored(t *testing.T) {
	var got *int64
	h := ActorMiddleware("")(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = ActorFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/search", http.NoBody)
	req.Header.Set(DefaultActorHeader, "42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got != nil {
		t.Errorf("forged actor header accepted: %d", *got)
	}
}

func TestActorMiddleware_AuthenticatedRequest(t *testing.T) {
	var got *int64
	h := BearerAuthMiddleware([]string{"secret"})(ActorMiddleware("")(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			got = ActorFromContext(r.Context())
		})))

	req := httptest.NewRequest(http.MethodGet, "/search", http.NoBody)
	req.Header.Set("Authorization", "Bearer secret")
	req.Header.Set(DefaultActorHeader, "42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || *got != 42 {
		t.Errorf("expected actor 42, got %v", got)
	}
}

func TestSourceAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/search", http.NoBody)
	req.RemoteAddr = "192.0.2.1:54321"
	if got := sourceAddr(req); got != "192.0.2.1" {
		t.Errorf("expected port stripped, got %q", got)
	}

	req.RemoteAddr = "198.51.100.4"
	if got := sourceAddr(req); got != "198.51.100.4" {
		t.Errorf("expected bare address, got %q", got)
	}
}

func ptr[T any](v T) *T { return &v }
