package chi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
)

// DefaultActorHeader carries the numeric user ID set by the session layer in front of the API.
const DefaultActorHeader = "X-Actor-Id"

type actorKey struct{}

// ActorMiddleware reads the acting user's ID from an upstream header. The
// header is honoured only on requests from a trusted proxy or with a valid
// API key; anyone else could forge it. Missing or malformed values leave the
// request anonymous.
func ActorMiddleware(header string) func(http.Handler) http.Handler {
	if header == "" {
		header = DefaultActorHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(header))
			if raw == "" || !requestTrusted(r.Context()) {
				next.ServeHTTP(w, r)
				return
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithActor(r.Context(), id)))
		})
	}
}

// ContextWithActor stores the actor ID in ctx.
func ContextWithActor(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, actorKey{}, id)
}

// ActorFromContext returns the actor ID, or nil for anonymous requests.
func ActorFromContext(ctx context.Context) *int64 {
	if id, ok := ctx.Value(actorKey{}).(int64); ok {
		return &id
	}
	return nil
}
