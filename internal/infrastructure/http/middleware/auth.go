package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ezrabeacon/beacon/internal/application/auth"
	"github.com/ezrabeacon/beacon/internal/infrastructure/http/response"
)

// Auth is HTTP middleware that resolves the caller's identity from the
// Authorization header and stores the user ID on the request context.
type Auth struct {
	authenticator auth.Authenticator
}

// NewAuth creates a new auth middleware around the given authenticator.
func NewAuth(authenticator auth.Authenticator) *Auth {
	return &Auth{
		authenticator: authenticator,
	}
}

// Validate is a Chi middleware that authenticates bearer tokens.
// Expects format: "Authorization: Bearer <token>"
func (a *Auth) Validate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			slog.WarnContext(r.Context(), "authentication failed: missing Authorization header",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "missing Authorization header")
			return
		}

		token, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			slog.WarnContext(r.Context(), "authentication failed: invalid Authorization header format",
				"path", r.URL.Path,
				"method", r.Method)
			response.Unauthorized(w, "invalid Authorization header format, expected: Bearer <token>")
			return
		}

		userID, err := a.authenticator.Authenticate(r.Context(), token)
		if err != nil {
			slog.WarnContext(r.Context(), "authentication failed: invalid token",
				"path", r.URL.Path,
				"method", r.Method,
				"error", err)
			response.Unauthorized(w, "invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithUserID(r.Context(), userID)))
	})
}
