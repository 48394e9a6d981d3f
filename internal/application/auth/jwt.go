package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-jose/go-jose/v4"
	"github.com/go-jose/go-jose/v4/jwt"

	"github.com/ezrabeacon/beacon/internal/domain"
)

// Signature algorithms accepted from the identity provider.
var allowedSignatureAlgorithms = []jose.SignatureAlgorithm{jose.RS256, jose.ES256}

// minKeyRefreshInterval limits how often an unknown key id triggers a JWKS
// re-fetch, so a flood of garbage tokens cannot hammer the issuer.
const minKeyRefreshInterval = 5 * time.Minute

// JWTConfig holds configuration for JWT bearer validation.
type JWTConfig struct {
	// JWKSURL is the issuer's published JSON Web Key Set endpoint.
	JWKSURL string
	// Issuer is the expected "iss" claim.
	Issuer string
	// Audience is the expected "aud" claim.
	Audience string
}

// JWTAuthenticator validates bearer JWTs against the identity provider's
// signing keys and extracts the caller's identity from the claims.
//
// The user ID comes from the "sub" claim, falling back to "oid" (the object
// ID claim emitted by Azure AD) when "sub" is absent.
type JWTAuthenticator struct {
	config JWTConfig
	client *http.Client

	mu          sync.RWMutex
	keySet      jose.JSONWebKeySet
	lastFetched time.Time
}

// NewJWTAuthenticator creates a JWT authenticator. Keys are fetched lazily on
// first use and refreshed when a token references an unknown key id.
func NewJWTAuthenticator(config JWTConfig) *JWTAuthenticator {
	return &JWTAuthenticator{
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Authenticate validates the token signature, issuer, audience, and expiry,
// then returns the user ID claim.
func (a *JWTAuthenticator) Authenticate(ctx context.Context, token string) (string, error) {
	parsed, err := jwt.ParseSigned(token, allowedSignatureAlgorithms)
	if err != nil {
		return "", fmt.Errorf("%w: malformed token", domain.ErrUnauthenticated)
	}

	if len(parsed.Headers) == 0 {
		return "", fmt.Errorf("%w: token has no signature header", domain.ErrUnauthenticated)
	}

	key, err := a.signingKey(ctx, parsed.Headers[0].KeyID)
	if err != nil {
		return "", err
	}

	var claims jwt.Claims
	var extra struct {
		ObjectID string `json:"oid"`
	}
	if err := parsed.Claims(key, &claims, &extra); err != nil {
		return "", fmt.Errorf("%w: invalid signature", domain.ErrUnauthenticated)
	}

	expected := jwt.Expected{
		Issuer:      a.config.Issuer,
		AnyAudience: jwt.Audience{a.config.Audience},
		Time:        time.Now(),
	}
	if err := claims.Validate(expected); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	// Primary identity claim with fallback, mirroring the SPA's identity
	// provider which emits both.
	userID := claims.Subject
	if userID == "" {
		userID = extra.ObjectID
	}
	if userID == "" {
		return "", fmt.Errorf("%w: no user ID claim", domain.ErrUnauthenticated)
	}

	return userID, nil
}

// signingKey returns the JWK matching the key id, fetching or refreshing the
// key set as needed.
func (a *JWTAuthenticator) signingKey(ctx context.Context, keyID string) (jose.JSONWebKey, error) {
	a.mu.RLock()
	keys := a.keySet.Key(keyID)
	stale := time.Since(a.lastFetched) > minKeyRefreshInterval
	a.mu.RUnlock()

	if len(keys) == 0 && stale {
		if err := a.refreshKeys(ctx); err != nil {
			return jose.JSONWebKey{}, fmt.Errorf("failed to fetch signing keys: %w", err)
		}
		a.mu.RLock()
		keys = a.keySet.Key(keyID)
		a.mu.RUnlock()
	}

	if len(keys) == 0 {
		return jose.JSONWebKey{}, fmt.Errorf("%w: unknown signing key", domain.ErrUnauthenticated)
	}
	return keys[0], nil
}

// refreshKeys fetches the JWKS document from the issuer.
func (a *JWTAuthenticator) refreshKeys(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.JWKSURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build JWKS request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch JWKS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("JWKS endpoint returned status %d", resp.StatusCode)
	}

	var keySet jose.JSONWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&keySet); err != nil {
		return fmt.Errorf("failed to decode JWKS: %w", err)
	}

	a.mu.Lock()
	a.keySet = keySet
	a.lastFetched = time.Now()
	a.mu.Unlock()

	return nil
}
