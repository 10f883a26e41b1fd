package http

import (
	"log/slog"
	"net/http"
	"strings"

	"proclog/internal/actor"
	obsmw "proclog/internal/observability/middleware"
)

// requireActor resolves the bearer token into an Actor and stores it in the
// request context. No actor means 401 before any service code runs.
func requireActor(resolver *actor.Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := obsmw.RequestIDFromContext(r.Context())

			raw := r.Header.Get("Authorization")
			if !strings.HasPrefix(strings.ToLower(raw), "bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				slog.Warn("auth missing bearer", "request_id", reqID)
				return
			}
			token := strings.TrimSpace(raw[len("Bearer "):])

			a, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				slog.Warn("auth token rejected", "error", err, "request_id", reqID)
				return
			}

			next.ServeHTTP(w, r.WithContext(actor.NewContext(r.Context(), a)))
		})
	}
}
