package config

import (
	"fmt"
	"strings"
	"time"
)

// AuthMode selects which identity provider backs the application.
type AuthMode string

const (
	// AuthModeHosted talks to a remote hosted identity API.
	AuthModeHosted AuthMode = "hosted"
	// AuthModeDev runs the local development provider (for development only).
	AuthModeDev AuthMode = "dev"
)

// UnmarshalText implements encoding.TextUnmarshaler for AuthMode.
func (a *AuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "hosted", "dev":
		*a = AuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid AuthMode: %q (valid options: hosted, dev)", v)
	}
}

// HostedConfig contains hosted identity API configuration.
type HostedConfig struct {
	BaseURL string        `env:"BASE_URL"`
	APIKey  string        `env:"API_KEY"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// DevIdPConfig controls the local development identity provider.
// Used when AUTH_MODE=dev.
type DevIdPConfig struct {
	JWTSecret       string        `env:"JWT_SECRET"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"1h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"720h"`
	ResetTokenTTL   time.Duration `env:"RESET_TOKEN_TTL"   envDefault:"24h"`
}

// AuthConfig groups all identity-related configuration.
type AuthConfig struct {
	// Mode determines which identity provider to use.
	Mode AuthMode `env:"AUTH_MODE" envDefault:"hosted"`

	// Hosted configuration (used when Mode=hosted).
	Hosted HostedConfig `envPrefix:"AUTH_HOSTED_"`

	// Dev provider configuration (used when Mode=dev).
	Dev DevIdPConfig `envPrefix:"AUTH_DEV_"`
}
