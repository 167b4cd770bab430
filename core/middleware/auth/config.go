package auth

import "time"

// Config holds configuration for session tokens.
type Config struct {
	// JWTSecret signs and verifies session tokens (HS256).
	JWTSecret string `mapstructure:"jwt_secret" default:""`
	// TokenTTLHours is the lifetime of an issued session token.
	TokenTTLHours int `mapstructure:"token_ttl_hours" default:"24"`
}

// TTL returns the token lifetime, falling back to 24h for non-positive values.
func (c Config) TTL() time.Duration {
	if c.TokenTTLHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.TokenTTLHours) * time.Hour
}
