// Package ports defines interfaces (hexagonal ports) for identity-related
// behavior. Implementations live in internal/adapters; orchestration in
// internal/service and internal/http.
package ports

import (
	"context"
	"errors"
	"time"

	domainauth "github.com/gatehouse/gatehouse/internal/domain/auth"
)

// ErrResetEmailNotFound is returned by SendResetEmail when no account exists
// for the address. The auth service swallows exactly this error so callers
// cannot enumerate registered emails; every other failure still surfaces.
var ErrResetEmailNotFound = errors.New("reset email: user not found")

// IdentityProvider is the external system of record for credentials, sessions,
// and email delivery. The core never hashes passwords, signs tokens, or sends
// mail itself; it only acts on what the provider reports.
//
// An IdentityProvider instance is request-scoped: it reads and rotates tokens
// through the cookie jar it was bound to at construction. "Current" in the
// method names refers to that cookie context.
type IdentityProvider interface {
	// CreateAccount registers a new account and returns its initial session.
	CreateAccount(ctx context.Context, email, password string) (domainauth.Session, error)

	// VerifyPassword authenticates an email/password pair and returns a fresh session.
	VerifyPassword(ctx context.Context, email, password string) (domainauth.Session, error)

	// DestroySession invalidates the current session and clears its tokens.
	DestroySession(ctx context.Context) error

	// SendResetEmail asks the provider to mail a reset link. Providers may
	// report a missing account distinctly via ErrResetEmailNotFound.
	SendResetEmail(ctx context.Context, email string) error

	// UpdatePassword sets a new password using the provider's current reset or
	// session context; the core does not re-validate that context.
	UpdatePassword(ctx context.Context, newPassword string) error

	// CurrentSession returns the session for the bound cookie context, or nil
	// when there is none. Absence is a valid outcome, not an error.
	CurrentSession(ctx context.Context) (*domainauth.Session, error)

	// CurrentUser resolves the user for the bound cookie context, refreshing
	// expired tokens when possible, or returns nil. It must degrade rather
	// than panic: the session guard depends on it.
	CurrentUser(ctx context.Context) (*domainauth.UserRef, error)

	// RefreshSession exchanges the refresh token for a rotated session, or
	// returns nil when no refresh is possible.
	RefreshSession(ctx context.Context) (*domainauth.Session, error)
}

// IdentityClientFactory binds an IdentityProvider to one request's cookies.
// A construction error means the provider cannot be configured at all; the
// session guard then degrades to protecting only the configured protected
// paths instead of failing the request pipeline.
type IdentityClientFactory interface {
	ForRequest(jar *domainauth.CookieJar) (IdentityProvider, error)
}

// Account is the stored credential record behind the dev identity provider.
// PasswordHash is opaque to everything but the provider that wrote it.
type Account struct {
	User         domainauth.UserRef
	PasswordHash string
}

// AccountStore persists accounts for the dev identity provider.
type AccountStore interface {
	Create(ctx context.Context, acct Account) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, userID string) (Account, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	RecordSignIn(ctx context.Context, userID string) error
}

// TokenRecord associates an opaque token with a user for a bounded lifetime.
// Used for refresh tokens and single-use reset contexts.
type TokenRecord struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// TokenStore persists token records with a TTL. The store owns expiry: a Get
// after the TTL elapses reports ErrTokenNotFound, which is how the dev
// provider enforces the reset-token validity window.
type TokenStore interface {
	Save(ctx context.Context, kind string, rec TokenRecord, ttl time.Duration) error
	Get(ctx context.Context, kind, token string) (TokenRecord, error)
	Delete(ctx context.Context, kind, token string) error
}

// ErrAccountNotFound is returned by AccountStore when no account matches.
var ErrAccountNotFound = errors.New("account not found")

// ErrTokenNotFound is returned by TokenStore for missing or expired tokens.
var ErrTokenNotFound = errors.New("token not found")
