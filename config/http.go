package config

import "strings"

// HTTPConfig contains HTTP server and route classification configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the base URL of the application (e.g., "https://app.example.com").
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// ProtectedPrefixes are path prefixes reachable only with a session.
	ProtectedPrefixes []string `env:"ROUTE_PROTECTED_PREFIXES" envDefault:"/dashboard;/account" envSeparator:";"`

	// AuthOnlyPrefixes are signed-out-only path prefixes (login, signup, reset).
	AuthOnlyPrefixes []string `env:"ROUTE_AUTH_ONLY_PREFIXES" envDefault:"/login;/signup;/reset-password" envSeparator:";"`

	// LoginPath is where unauthenticated users on protected paths are redirected.
	LoginPath string `env:"ROUTE_LOGIN_PATH" envDefault:"/login"`

	// LandingPath is where authenticated users on auth-only paths are redirected.
	LandingPath string `env:"ROUTE_LANDING_PATH" envDefault:"/dashboard"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	h.ProtectedPrefixes = cleanPrefixes(h.ProtectedPrefixes)
	h.AuthOnlyPrefixes = cleanPrefixes(h.AuthOnlyPrefixes)
	if !strings.HasPrefix(h.LoginPath, "/") {
		h.LoginPath = "/login"
	}
	if !strings.HasPrefix(h.LandingPath, "/") {
		h.LandingPath = "/"
	}
}

// cleanPrefixes drops empty entries and entries missing a leading slash,
// preserving order.
func cleanPrefixes(prefixes []string) []string {
	out := prefixes[:0]
	for _, p := range prefixes {
		p = strings.TrimSpace(p)
		if p == "" || !strings.HasPrefix(p, "/") {
			continue
		}
		out = append(out, p)
	}
	return out
}
