package server

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware gives each request a deadline. Handlers observe it through
// the request context; the engine passes that context to the evaluator, so a
// slow model call is cut off at whichever deadline comes first.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
