package auth

import (
	"context"
	"fmt"

	"github.com/ezrabeacon/beacon/internal/domain"
)

// DevUserID is the synthetic identity injected by the development bypass.
const DevUserID = "dev-user-123"

// DevAuthenticator accepts any non-empty bearer value and resolves it to a
// fixed synthetic identity. It exists so the SPA can run against a local
// server without an identity provider; config validation refuses to enable
// it when the environment is prod.
type DevAuthenticator struct{}

// NewDevAuthenticator creates the development bypass authenticator.
func NewDevAuthenticator() *DevAuthenticator {
	return &DevAuthenticator{}
}

// Authenticate returns the fixed dev identity for any non-empty token.
func (a *DevAuthenticator) Authenticate(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", fmt.Errorf("%w: empty bearer token", domain.ErrUnauthenticated)
	}
	return DevUserID, nil
}
