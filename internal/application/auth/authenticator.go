package auth

import (
	"context"

	"github.com/ezrabeacon/beacon/internal/domain"
)

// Authenticator resolves a stable user identity from a bearer token.
// Every store operation downstream is scoped to the returned ID.
type Authenticator interface {
	// Authenticate validates the raw bearer token and returns the user ID.
	// Returns domain.ErrUnauthenticated (possibly wrapped) when no identity
	// can be resolved.
	Authenticate(ctx context.Context, token string) (string, error)
}

type contextKey struct{}

// ContextWithUserID returns a context carrying the authenticated user ID.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, contextKey{}, userID)
}

// UserIDFromContext extracts the authenticated user ID set by the auth
// middleware. Returns domain.ErrUnauthenticated if the context carries none.
func UserIDFromContext(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(contextKey{}).(string)
	if !ok || userID == "" {
		return "", domain.ErrUnauthenticated
	}
	return userID, nil
}
