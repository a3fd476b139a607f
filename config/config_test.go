package config

import (
	"reflect"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestAuthMode_UnmarshalText(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    AuthMode
		expectError bool
	}{
		{name: "hosted", input: "hosted", expected: AuthModeHosted},
		{name: "dev", input: "dev", expected: AuthModeDev},
		{name: "mixed case", input: "Hosted", expected: AuthModeHosted},
		{name: "unknown mode", input: "ldap", expectError: true},
		{name: "empty", input: "", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))

			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if mode != tt.expected {
				t.Errorf("expected mode %q, got %q", tt.expected, mode)
			}
		})
	}
}

func TestAppConfig_ParseAuthEnv(t *testing.T) {
	t.Setenv("AUTH_MODE", "dev")
	t.Setenv("AUTH_HOSTED_BASE_URL", "https://auth.example.com")
	t.Setenv("AUTH_HOSTED_API_KEY", "anon-key")
	t.Setenv("AUTH_HOSTED_TIMEOUT", "5s")
	t.Setenv("AUTH_DEV_JWT_SECRET", "super-secret")
	t.Setenv("AUTH_DEV_ACCESS_TOKEN_TTL", "30m")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}

	expected := AuthConfig{
		Mode: AuthModeDev,
		Hosted: HostedConfig{
			BaseURL: "https://auth.example.com",
			APIKey:  "anon-key",
			Timeout: 5 * time.Second,
		},
		Dev: DevIdPConfig{
			JWTSecret:       "super-secret",
			AccessTokenTTL:  30 * time.Minute,
			RefreshTokenTTL: 720 * time.Hour,
			ResetTokenTTL:   24 * time.Hour,
		},
	}

	if !reflect.DeepEqual(cfg.Auth, expected) {
		t.Fatalf("unexpected auth configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Auth)
	}
}

func TestAppConfig_ParseRouteEnv(t *testing.T) {
	t.Setenv("ROUTE_PROTECTED_PREFIXES", "/app;/admin")
	t.Setenv("ROUTE_AUTH_ONLY_PREFIXES", "/signin")
	t.Setenv("ROUTE_LOGIN_PATH", "/signin")
	t.Setenv("ROUTE_LANDING_PATH", "/app")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if !reflect.DeepEqual(cfg.HTTP.ProtectedPrefixes, []string{"/app", "/admin"}) {
		t.Fatalf("unexpected protected prefixes: %#v", cfg.HTTP.ProtectedPrefixes)
	}
	if !reflect.DeepEqual(cfg.HTTP.AuthOnlyPrefixes, []string{"/signin"}) {
		t.Fatalf("unexpected auth-only prefixes: %#v", cfg.HTTP.AuthOnlyPrefixes)
	}
	if cfg.HTTP.LoginPath != "/signin" {
		t.Fatalf("unexpected login path: %q", cfg.HTTP.LoginPath)
	}
	if cfg.HTTP.LandingPath != "/app" {
		t.Fatalf("unexpected landing path: %q", cfg.HTTP.LandingPath)
	}
}

func TestHTTPConfig_Sanitize(t *testing.T) {
	cfg := HTTPConfig{
		ProtectedPrefixes: []string{" /dashboard ", "", "no-slash", "/account"},
		AuthOnlyPrefixes:  []string{"/login", "   "},
		LoginPath:         "login",
		LandingPath:       "",
	}

	cfg.Sanitize()

	if !reflect.DeepEqual(cfg.ProtectedPrefixes, []string{"/dashboard", "/account"}) {
		t.Fatalf("expected invalid prefixes to be dropped, got %#v", cfg.ProtectedPrefixes)
	}
	if !reflect.DeepEqual(cfg.AuthOnlyPrefixes, []string{"/login"}) {
		t.Fatalf("expected blank prefixes to be dropped, got %#v", cfg.AuthOnlyPrefixes)
	}
	if cfg.LoginPath != "/login" {
		t.Fatalf("expected login path fallback, got %q", cfg.LoginPath)
	}
	if cfg.LandingPath != "/" {
		t.Fatalf("expected landing path fallback, got %q", cfg.LandingPath)
	}
}

func TestAppConfig_DetectDevMode(t *testing.T) {
	tests := []struct {
		name     string
		dev      string
		nodeEnv  string
		expected bool
	}{
		{name: "explicit dev flag", dev: "true", nodeEnv: "", expected: true},
		{name: "node env fallback", dev: "false", nodeEnv: "development", expected: true},
		{name: "production", dev: "false", nodeEnv: "production", expected: false},
		{name: "unset", dev: "false", nodeEnv: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEV", tt.dev)
			t.Setenv("NODE_ENV", tt.nodeEnv)

			var cfg AppConfig
			if err := env.Parse(&cfg); err != nil {
				t.Fatalf("parse config: %v", err)
			}
			cfg.Sanitize()

			if cfg.IsDev != tt.expected {
				t.Errorf("expected IsDev=%v, got %v", tt.expected, cfg.IsDev)
			}
		})
	}
}

func TestDBConfig_DSN(t *testing.T) {
	cfg := DBConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "svc",
		Password: "pw",
		Name:     "gatehouse",
		SSLMode:  "require",
	}

	expected := "postgres://svc:pw@db.internal:5433/gatehouse?sslmode=require"
	if got := cfg.DSN(); got != expected {
		t.Fatalf("expected DSN %q, got %q", expected, got)
	}
}
