package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/tjfontaine/interview-coach/internal/core/domain"
	"github.com/tjfontaine/interview-coach/internal/core/ports"
)

type authContextKey struct{}

// AuthMiddleware verifies the bearer token and injects the caller identity.
// Without an Authorization header the request is rejected when required is
// true and passed through anonymously otherwise. A header that is present
// but invalid is always rejected.
func AuthMiddleware(provider ports.AuthProvider, required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				if required {
					WriteError(w, r, domain.NewAPIError(domain.ErrorTypeAuthentication, "missing Authorization header"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			auth, err := provider.Authenticate(r.Context(), token)
			if err != nil {
				AddError(r.Context(), err)
				WriteError(w, r, domain.NewAPIError(domain.ErrorTypeAuthentication, "invalid bearer token"))
				return
			}

			AddLogField(r.Context(), "user_id", auth.UserID)
			ctx := context.WithValue(r.Context(), authContextKey{}, auth)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAuth returns the authenticated caller, or nil for anonymous requests.
func GetAuth(ctx context.Context) *ports.AuthContext {
	if a, ok := ctx.Value(authContextKey{}).(*ports.AuthContext); ok {
		return a
	}
	return nil
}

// UserID returns the authenticated user ID, or "" for anonymous requests.
func UserID(ctx context.Context) string {
	if a := GetAuth(ctx); a != nil {
		return a.UserID
	}
	return ""
}
