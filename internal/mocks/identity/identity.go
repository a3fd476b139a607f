// Package identity contains simple hand-written test doubles for the identity
// ports. These are lightweight and suitable for unit tests without codegen.
package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/gatehouse/gatehouse/internal/domain/auth"
	"github.com/gatehouse/gatehouse/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.IdentityProvider      = (*MemoryProvider)(nil)
	_ ports.IdentityProvider      = (*ProviderFuncs)(nil)
	_ ports.IdentityClientFactory = (FactoryFunc)(nil)
)

// FactoryFunc adapts a function to ports.IdentityClientFactory.
type FactoryFunc func(jar *domainauth.CookieJar) (ports.IdentityProvider, error)

// ForRequest implements ports.IdentityClientFactory.
func (f FactoryFunc) ForRequest(jar *domainauth.CookieJar) (ports.IdentityProvider, error) {
	return f(jar)
}

// StaticFactory returns a factory that always yields the same provider.
func StaticFactory(p ports.IdentityProvider) FactoryFunc {
	return func(_ *domainauth.CookieJar) (ports.IdentityProvider, error) {
		return p, nil
	}
}

// ProviderFuncs is a func-field test double: set only the methods the test
// needs; unset methods return the zero outcome.
type ProviderFuncs struct {
	CreateAccountFn  func(ctx context.Context, email, password string) (domainauth.Session, error)
	VerifyPasswordFn func(ctx context.Context, email, password string) (domainauth.Session, error)
	DestroySessionFn func(ctx context.Context) error
	SendResetEmailFn func(ctx context.Context, email string) error
	UpdatePasswordFn func(ctx context.Context, newPassword string) error
	CurrentSessionFn func(ctx context.Context) (*domainauth.Session, error)
	CurrentUserFn    func(ctx context.Context) (*domainauth.UserRef, error)
	RefreshSessionFn func(ctx context.Context) (*domainauth.Session, error)
}

func (p *ProviderFuncs) CreateAccount(ctx context.Context, email, password string) (domainauth.Session, error) {
	if p.CreateAccountFn != nil {
		return p.CreateAccountFn(ctx, email, password)
	}
	return domainauth.Session{}, nil
}

func (p *ProviderFuncs) VerifyPassword(ctx context.Context, email, password string) (domainauth.Session, error) {
	if p.VerifyPasswordFn != nil {
		return p.VerifyPasswordFn(ctx, email, password)
	}
	return domainauth.Session{}, nil
}

func (p *ProviderFuncs) DestroySession(ctx context.Context) error {
	if p.DestroySessionFn != nil {
		return p.DestroySessionFn(ctx)
	}
	return nil
}

func (p *ProviderFuncs) SendResetEmail(ctx context.Context, email string) error {
	if p.SendResetEmailFn != nil {
		return p.SendResetEmailFn(ctx, email)
	}
	return nil
}

func (p *ProviderFuncs) UpdatePassword(ctx context.Context, newPassword string) error {
	if p.UpdatePasswordFn != nil {
		return p.UpdatePasswordFn(ctx, newPassword)
	}
	return nil
}

func (p *ProviderFuncs) CurrentSession(ctx context.Context) (*domainauth.Session, error) {
	if p.CurrentSessionFn != nil {
		return p.CurrentSessionFn(ctx)
	}
	return nil, nil
}

func (p *ProviderFuncs) CurrentUser(ctx context.Context) (*domainauth.UserRef, error) {
	if p.CurrentUserFn != nil {
		return p.CurrentUserFn(ctx)
	}
	return nil, nil
}

func (p *ProviderFuncs) RefreshSession(ctx context.Context) (*domainauth.Session, error) {
	if p.RefreshSessionFn != nil {
		return p.RefreshSessionFn(ctx)
	}
	return nil, nil
}

// MemoryProvider is a behavioral in-memory identity provider for unit tests.
// It keeps accounts and the current session in process memory and emits the
// same raw error phrases real providers use, so the error mapper sees
// realistic input.
type MemoryProvider struct {
	SessionDuration time.Duration // default 1h when zero

	accounts map[string]account
	current  *domainauth.Session
}

type account struct {
	user     domainauth.UserRef
	password string
}

// NewMemoryProvider creates an empty in-memory provider.
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{accounts: make(map[string]account)}
}

func (m *MemoryProvider) sessionFor(user domainauth.UserRef) domainauth.Session {
	dur := m.SessionDuration
	if dur == 0 {
		dur = time.Hour
	}
	return domainauth.Session{
		User:         user,
		AccessToken:  uuid.NewString(),
		RefreshToken: uuid.NewString(),
		TokenType:    domainauth.TokenTypeBearer,
		ExpiresAt:    time.Now().Add(dur),
	}
}

func (m *MemoryProvider) CreateAccount(_ context.Context, email, password string) (domainauth.Session, error) {
	if _, exists := m.accounts[email]; exists {
		return domainauth.Session{}, errors.New("User already registered")
	}
	now := time.Now()
	user := domainauth.UserRef{
		ID:           uuid.New(),
		Email:        email,
		CreatedAt:    now,
		LastSignInAt: now,
	}
	m.accounts[email] = account{user: user, password: password}
	sess := m.sessionFor(user)
	m.current = &sess
	return sess, nil
}

func (m *MemoryProvider) VerifyPassword(_ context.Context, email, password string) (domainauth.Session, error) {
	acct, ok := m.accounts[email]
	if !ok || acct.password != password {
		return domainauth.Session{}, errors.New("Invalid login credentials")
	}
	acct.user.LastSignInAt = time.Now()
	m.accounts[email] = acct
	sess := m.sessionFor(acct.user)
	m.current = &sess
	return sess, nil
}

func (m *MemoryProvider) DestroySession(_ context.Context) error {
	m.current = nil
	return nil
}

func (m *MemoryProvider) SendResetEmail(_ context.Context, email string) error {
	if _, ok := m.accounts[email]; !ok {
		return ports.ErrResetEmailNotFound
	}
	return nil
}

func (m *MemoryProvider) UpdatePassword(_ context.Context, newPassword string) error {
	if m.current == nil {
		return errors.New("invalid reset token")
	}
	acct := m.accounts[m.current.User.Email]
	acct.password = newPassword
	m.accounts[m.current.User.Email] = acct
	return nil
}

func (m *MemoryProvider) CurrentSession(_ context.Context) (*domainauth.Session, error) {
	if m.current == nil || m.current.Expired(time.Now()) {
		return nil, nil
	}
	sess := *m.current
	return &sess, nil
}

func (m *MemoryProvider) CurrentUser(_ context.Context) (*domainauth.UserRef, error) {
	if m.current == nil || m.current.Expired(time.Now()) {
		return nil, nil
	}
	user := m.current.User
	return &user, nil
}

func (m *MemoryProvider) RefreshSession(_ context.Context) (*domainauth.Session, error) {
	if m.current == nil {
		return nil, nil
	}
	sess := m.sessionFor(m.current.User)
	m.current = &sess
	return &sess, nil
}
