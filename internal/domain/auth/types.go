// Package auth contains domain-level types for credentials and sessions.
// It is pure and free of framework/adapter concerns.
package auth

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// TokenTypeBearer is the only token type issued by supported identity providers.
const TokenTypeBearer = "bearer"

// Credentials carries a raw email/password pair from a form submission to the
// identity provider. It is passed through, never persisted and never sanitized:
// stripping characters from a password would silently change the credential the
// user intended to submit.
type Credentials struct {
	Email    string
	Password string
}

// LogValue implements slog.LogValuer so credentials can never leak into logs.
func (Credentials) LogValue() slog.Value {
	return slog.StringValue("[redacted]")
}

// UserRef identifies an account held by the identity provider.
// EmailConfirmedAt is nil until the provider records a confirmation event;
// it transitions to a timestamp exactly once, and only on the provider side.
type UserRef struct {
	ID               uuid.UUID  `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	LastSignInAt     time.Time  `json:"last_sign_in_at"`
}

// Session is the provider-issued proof of authentication. The core holds a
// session only transiently, for the duration of one request or one call; the
// identity provider owns its lifecycle (created on sign-in/sign-up, rotated on
// refresh, destroyed on sign-out or expiry).
type Session struct {
	User         UserRef   `json:"user"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Expired reports whether the session's access token has passed its expiry.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
