package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gatehouse/gatehouse/internal/autherr"
	domainauth "github.com/gatehouse/gatehouse/internal/domain/auth"
	"github.com/gatehouse/gatehouse/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider ports.IdentityProvider
	Logger   *slog.Logger
}

// AuthService orchestrates authentication operations against the identity
// provider. It is stateless: each operation makes exactly one provider call
// and funnels any write-path failure through the error mapper. It never
// touches cookies; token plumbing belongs to the provider and the guard.
type AuthService struct {
	provider ports.IdentityProvider
	logger   *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		provider: opts.Provider,
		logger:   logger,
	}
}

// AuthResult carries the outcome of a successful credential operation.
type AuthResult struct {
	User    *domainauth.UserRef
	Session *domainauth.Session
}

// SignUp registers a new account. A failure is returned as a mapped
// *autherr.AuthError; raw provider text never crosses this boundary.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*AuthResult, error) {
	sess, err := s.provider.CreateAccount(ctx, email, password)
	if err != nil {
		return nil, autherr.MapProviderError(err)
	}
	return &AuthResult{User: &sess.User, Session: &sess}, nil
}

// SignIn authenticates an email/password pair.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	sess, err := s.provider.VerifyPassword(ctx, email, password)
	if err != nil {
		return nil, autherr.MapProviderError(err)
	}
	return &AuthResult{User: &sess.User, Session: &sess}, nil
}

// SignOut destroys the current session.
func (s *AuthService) SignOut(ctx context.Context) error {
	if err := s.provider.DestroySession(ctx); err != nil {
		return autherr.MapProviderError(err)
	}
	return nil
}

// ResetPasswordRequest asks the provider to send a reset email.
//
// Security contract: a missing account is swallowed and reported as success so
// this endpoint cannot be used to enumerate registered emails. Every other
// failure (transport, provider outage) still surfaces through the mapper, so
// genuine outages are not hidden behind the generic success.
func (s *AuthService) ResetPasswordRequest(ctx context.Context, email string) error {
	err := s.provider.SendResetEmail(ctx, email)
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrResetEmailNotFound) {
		s.logger.DebugContext(ctx, "reset requested for unknown email")
		return nil
	}
	return autherr.MapProviderError(err)
}

// ResetPassword sets a new password using the provider's current reset
// context. The core does not re-validate that context; the provider reports
// an invalid or expired token through its error text.
func (s *AuthService) ResetPassword(ctx context.Context, newPassword string) error {
	if err := s.provider.UpdatePassword(ctx, newPassword); err != nil {
		return autherr.MapProviderError(err)
	}
	return nil
}

// GetSession returns the current session, or nil. Provider failures degrade
// to nil: session absence is a common, valid outcome, not an error state.
func (s *AuthService) GetSession(ctx context.Context) *domainauth.Session {
	sess, err := s.provider.CurrentSession(ctx)
	if err != nil {
		s.logger.DebugContext(ctx, "current session lookup failed", "error", err)
		return nil
	}
	return sess
}

// GetCurrentUser returns the current user, or nil on any failure.
func (s *AuthService) GetCurrentUser(ctx context.Context) *domainauth.UserRef {
	user, err := s.provider.CurrentUser(ctx)
	if err != nil {
		s.logger.DebugContext(ctx, "current user lookup failed", "error", err)
		return nil
	}
	return user
}

// RefreshSession rotates the session tokens, or returns nil when no refresh
// is possible.
func (s *AuthService) RefreshSession(ctx context.Context) *domainauth.Session {
	sess, err := s.provider.RefreshSession(ctx)
	if err != nil {
		s.logger.DebugContext(ctx, "session refresh failed", "error", err)
		return nil
	}
	return sess
}
