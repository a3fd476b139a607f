// Package devidp provides a local identity provider for development and test
// deployments. It keeps the full provider contract honest without any external
// identity service: bcrypt-verified credentials, signed access tokens,
// rotating refresh tokens, and single-use reset contexts with a 24h window.
//
// Reset links are logged instead of emailed. The link carries a token the UI
// exchanges into the reset cookie before calling the confirm endpoint.
package devidp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainauth "github.com/gatehouse/gatehouse/internal/domain/auth"
	"github.com/gatehouse/gatehouse/internal/ports"
)

const (
	accessTokenCookie  = domainauth.AccessTokenCookie
	refreshTokenCookie = domainauth.RefreshTokenCookie
	resetTokenCookie   = domainauth.ResetTokenCookie

	kindRefresh = "refresh"
	kindReset   = "reset"

	// Server-side minimum; the form validators enforce the stricter client
	// policy. The raw phrase below is what the error mapper expects.
	minPasswordLength = 6
)

var (
	errInvalidCredentials = errors.New("Invalid login credentials")
	errWeakPassword       = errors.New("password is too weak")
	errInvalidResetToken  = errors.New("invalid reset token")
)

// Config controls the dev identity provider.
type Config struct {
	// JWTSecret signs access tokens (HS256). Required.
	JWTSecret string
	// Issuer is the access token issuer claim. Defaults to "gatehouse-dev".
	Issuer string
	// AccessTokenTTL defaults to 1h.
	AccessTokenTTL time.Duration
	// RefreshTokenTTL defaults to 720h (30 days).
	RefreshTokenTTL time.Duration
	// ResetTokenTTL defaults to 24h; a reset token is rejected once this
	// window elapses.
	ResetTokenTTL time.Duration
}

func (c *Config) applyDefaults() {
	if c.Issuer == "" {
		c.Issuer = "gatehouse-dev"
	}
	if c.AccessTokenTTL == 0 {
		c.AccessTokenTTL = time.Hour
	}
	if c.RefreshTokenTTL == 0 {
		c.RefreshTokenTTL = 720 * time.Hour
	}
	if c.ResetTokenTTL == 0 {
		c.ResetTokenTTL = 24 * time.Hour
	}
}

// Factory builds request-scoped dev providers.
type Factory struct {
	cfg      Config
	accounts ports.AccountStore
	tokens   ports.TokenStore
	logger   *slog.Logger
	now      func() time.Time
}

// FactoryOptions groups dependencies for NewFactory.
type FactoryOptions struct {
	Config   Config
	Accounts ports.AccountStore
	Tokens   ports.TokenStore
	Logger   *slog.Logger
}

// NewFactory validates configuration and returns a factory.
func NewFactory(opts FactoryOptions) (*Factory, error) {
	if opts.Config.JWTSecret == "" {
		return nil, errors.New("devidp: JWT secret is required")
	}
	if opts.Accounts == nil {
		return nil, errors.New("devidp: account store is required")
	}
	if opts.Tokens == nil {
		return nil, errors.New("devidp: token store is required")
	}
	cfg := opts.Config
	cfg.applyDefaults()
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		cfg:      cfg,
		accounts: opts.Accounts,
		tokens:   opts.Tokens,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// ForRequest implements ports.IdentityClientFactory.
func (f *Factory) ForRequest(jar *domainauth.CookieJar) (ports.IdentityProvider, error) {
	if jar == nil {
		return nil, errors.New("devidp: cookie jar is required")
	}
	return &provider{
		cfg:      f.cfg,
		accounts: f.accounts,
		tokens:   f.tokens,
		logger:   f.logger,
		now:      f.now,
		jar:      jar,
	}, nil
}

// provider is the request-scoped dev identity provider.
type provider struct {
	cfg      Config
	accounts ports.AccountStore
	tokens   ports.TokenStore
	logger   *slog.Logger
	now      func() time.Time
	jar      *domainauth.CookieJar
}

type accessClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func (p *provider) CreateAccount(ctx context.Context, email, password string) (domainauth.Session, error) {
	if len(password) < minPasswordLength {
		return domainauth.Session{}, errWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("hash password: %w", err)
	}

	now := p.now()
	acct, err := p.accounts.Create(ctx, ports.Account{
		User: domainauth.UserRef{
			ID:           uuid.New(),
			Email:        email,
			CreatedAt:    now,
			LastSignInAt: now,
		},
		PasswordHash: string(hash),
	})
	if err != nil {
		return domainauth.Session{}, err
	}

	return p.issueSession(ctx, acct.User)
}

func (p *provider) VerifyPassword(ctx context.Context, email, password string) (domainauth.Session, error) {
	acct, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrAccountNotFound) {
			return domainauth.Session{}, errInvalidCredentials
		}
		return domainauth.Session{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)) != nil {
		return domainauth.Session{}, errInvalidCredentials
	}

	if err := p.accounts.RecordSignIn(ctx, acct.User.ID.String()); err != nil {
		p.logger.WarnContext(ctx, "record sign-in failed", "error", err)
	} else {
		acct.User.LastSignInAt = p.now()
	}

	return p.issueSession(ctx, acct.User)
}

func (p *provider) DestroySession(ctx context.Context) error {
	if token, ok := p.jar.Get(refreshTokenCookie); ok {
		if err := p.tokens.Delete(ctx, kindRefresh, token); err != nil {
			return fmt.Errorf("revoke refresh token: %w", err)
		}
	}
	p.jar.Clear(accessTokenCookie)
	p.jar.Clear(refreshTokenCookie)
	return nil
}

func (p *provider) SendResetEmail(ctx context.Context, email string) error {
	acct, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrAccountNotFound) {
			return ports.ErrResetEmailNotFound
		}
		return err
	}

	token := uuid.NewString()
	rec := ports.TokenRecord{Token: token, UserID: acct.User.ID.String()}
	if err := p.tokens.Save(ctx, kindReset, rec, p.cfg.ResetTokenTTL); err != nil {
		return fmt.Errorf("save reset token: %w", err)
	}

	// No real mail in dev mode; the operator reads the link from the log.
	p.logger.InfoContext(ctx, "password reset link issued",
		"reset_token", token,
		"valid_for", p.cfg.ResetTokenTTL,
	)
	return nil
}

func (p *provider) UpdatePassword(ctx context.Context, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return errWeakPassword
	}

	userID, fromReset, err := p.resetContext(ctx)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := p.accounts.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	if fromReset {
		p.jar.Clear(resetTokenCookie)
	}
	return nil
}

// resetContext resolves who the password update applies to: a single-use
// reset token takes precedence, then a live authenticated session.
func (p *provider) resetContext(ctx context.Context) (userID string, fromReset bool, err error) {
	if token, ok := p.jar.Get(resetTokenCookie); ok {
		rec, getErr := p.tokens.Get(ctx, kindReset, token)
		if getErr != nil {
			if errors.Is(getErr, ports.ErrTokenNotFound) {
				return "", false, errInvalidResetToken
			}
			return "", false, getErr
		}
		// Consume the token: a reset context is used exactly once.
		if delErr := p.tokens.Delete(ctx, kindReset, token); delErr != nil {
			return "", false, fmt.Errorf("consume reset token: %w", delErr)
		}
		return rec.UserID, true, nil
	}

	if user, _ := p.currentFromAccessToken(ctx); user != nil {
		return user.ID.String(), false, nil
	}
	return "", false, errInvalidResetToken
}

func (p *provider) CurrentSession(ctx context.Context) (*domainauth.Session, error) {
	user, expiresAt := p.currentFromAccessToken(ctx)
	if user == nil {
		return nil, nil
	}
	access, _ := p.jar.Get(accessTokenCookie)
	refresh, _ := p.jar.Get(refreshTokenCookie)
	return &domainauth.Session{
		User:         *user,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    domainauth.TokenTypeBearer,
		ExpiresAt:    expiresAt,
	}, nil
}

func (p *provider) CurrentUser(ctx context.Context) (*domainauth.UserRef, error) {
	if user, _ := p.currentFromAccessToken(ctx); user != nil {
		return user, nil
	}
	// Expired or missing access token: try a refresh so a returning browser
	// stays signed in. The rotation lands in the cookie jar for the caller
	// to propagate.
	sess, err := p.RefreshSession(ctx)
	if err != nil || sess == nil {
		return nil, err
	}
	user := sess.User
	return &user, nil
}

func (p *provider) RefreshSession(ctx context.Context) (*domainauth.Session, error) {
	token, ok := p.jar.Get(refreshTokenCookie)
	if !ok {
		return nil, nil
	}
	rec, err := p.tokens.Get(ctx, kindRefresh, token)
	if err != nil {
		if errors.Is(err, ports.ErrTokenNotFound) {
			return nil, nil
		}
		return nil, err
	}
	// Rotate: the old refresh token dies with this exchange.
	if err := p.tokens.Delete(ctx, kindRefresh, token); err != nil {
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	acct, err := p.accounts.GetByID(ctx, rec.UserID)
	if err != nil {
		return nil, err
	}
	sess, err := p.issueSession(ctx, acct.User)
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

// issueSession signs a fresh access token, stores a new refresh token, and
// records both cookie writes in the jar.
func (p *provider) issueSession(ctx context.Context, user domainauth.UserRef) (domainauth.Session, error) {
	now := p.now()
	expiresAt := now.Add(p.cfg.AccessTokenTTL)

	claims := accessClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    p.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(p.cfg.JWTSecret))
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("sign access token: %w", err)
	}

	refresh := uuid.NewString()
	rec := ports.TokenRecord{Token: refresh, UserID: user.ID.String()}
	if err := p.tokens.Save(ctx, kindRefresh, rec, p.cfg.RefreshTokenTTL); err != nil {
		return domainauth.Session{}, fmt.Errorf("save refresh token: %w", err)
	}

	p.jar.Set(accessTokenCookie, access, int(p.cfg.AccessTokenTTL.Seconds()))
	p.jar.Set(refreshTokenCookie, refresh, int(p.cfg.RefreshTokenTTL.Seconds()))

	return domainauth.Session{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    domainauth.TokenTypeBearer,
		ExpiresAt:    expiresAt,
	}, nil
}

// currentFromAccessToken verifies the access cookie and resolves its user.
// Any verification failure degrades to "no user".
func (p *provider) currentFromAccessToken(ctx context.Context) (*domainauth.UserRef, time.Time) {
	raw, ok := p.jar.Get(accessTokenCookie)
	if !ok {
		return nil, time.Time{}
	}

	var claims accessClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(p.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(p.now))
	if err != nil || !token.Valid {
		return nil, time.Time{}
	}

	acct, err := p.accounts.GetByEmail(ctx, claims.Email)
	if err != nil {
		return nil, time.Time{}
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	user := acct.User
	return &user, expiresAt
}
