package config

import "fmt"

// Authentication modes.
const (
	AuthModeJWT = "jwt"
	AuthModeDev = "dev"
)

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// Mode selects the authenticator: jwt or dev.
	Mode string `env:"BEACON_AUTH_MODE"`

	// JWT validation settings, required in jwt mode.
	JWKSURL     string `env:"BEACON_JWKS_URL"`
	JWTIssuer   string `env:"BEACON_JWT_ISSUER"`
	JWTAudience string `env:"BEACON_JWT_AUDIENCE"`
}

func (c *AuthConfig) validate() error {
	switch c.Mode {
	case AuthModeJWT:
		if c.JWKSURL == "" {
			return fmt.Errorf("BEACON_JWKS_URL is required when BEACON_AUTH_MODE is 'jwt'")
		}
		if c.JWTIssuer == "" {
			return fmt.Errorf("BEACON_JWT_ISSUER is required when BEACON_AUTH_MODE is 'jwt'")
		}
		if c.JWTAudience == "" {
			return fmt.Errorf("BEACON_JWT_AUDIENCE is required when BEACON_AUTH_MODE is 'jwt'")
		}
	case AuthModeDev:
	default:
		return fmt.Errorf("unknown BEACON_AUTH_MODE: %s", c.Mode)
	}
	return nil
}
