// Package hostedidp implements the identity provider port against a hosted
// identity API: JSON signup/recover/user endpoints plus a standard OAuth2
// password/refresh token endpoint. Tokens live in the request's cookie jar;
// this adapter never exposes them to the rest of the application.
package hostedidp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	domainauth "github.com/gatehouse/gatehouse/internal/domain/auth"
	"github.com/gatehouse/gatehouse/internal/ports"
)

const defaultTimeout = 10 * time.Second

// Config controls the hosted identity adapter.
type Config struct {
	// BaseURL is the identity API root, e.g. "https://auth.example.com".
	BaseURL string
	// APIKey is the publishable key sent on every request.
	APIKey string
	// Timeout bounds each identity API call. Defaults to 10s.
	Timeout time.Duration
}

// Factory builds request-scoped hosted identity clients.
type Factory struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewFactory validates configuration and returns a factory.
func NewFactory(cfg Config, logger *slog.Logger) (*Factory, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("hostedidp: base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("hostedidp: API key is required")
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}, nil
}

// ForRequest implements ports.IdentityClientFactory.
func (f *Factory) ForRequest(jar *domainauth.CookieJar) (ports.IdentityProvider, error) {
	if jar == nil {
		return nil, errors.New("hostedidp: cookie jar is required")
	}
	return &client{
		cfg:        f.cfg,
		httpClient: f.httpClient,
		logger:     f.logger,
		jar:        jar,
	}, nil
}

type client struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger
	jar        *domainauth.CookieJar
}

// oauthConfig describes the hosted API's token endpoint for password and
// refresh grants.
func (c *client) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID: c.cfg.APIKey,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.cfg.BaseURL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// oauthContext injects our instrumented HTTP client into oauth2 exchanges.
func (c *client) oauthContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
}

// sessionResponse is the hosted API's session payload shape.
type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	User         userResponse `json:"user"`
}

type userResponse struct {
	ID               string     `json:"id"`
	Email            string     `json:"email"`
	EmailConfirmedAt *time.Time `json:"email_confirmed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	LastSignInAt     time.Time  `json:"last_sign_in_at"`
}

func (u userResponse) toDomain() (domainauth.UserRef, error) {
	user := domainauth.UserRef{
		Email:            u.Email,
		EmailConfirmedAt: u.EmailConfirmedAt,
		CreatedAt:        u.CreatedAt,
		LastSignInAt:     u.LastSignInAt,
	}
	if err := user.ID.UnmarshalText([]byte(u.ID)); err != nil {
		return domainauth.UserRef{}, fmt.Errorf("parse user id: %w", err)
	}
	return user, nil
}

func (c *client) CreateAccount(ctx context.Context, email, password string) (domainauth.Session, error) {
	var resp sessionResponse
	err := c.postJSON(ctx, "/signup", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return domainauth.Session{}, err
	}
	return c.storeSession(resp)
}

func (c *client) VerifyPassword(ctx context.Context, email, password string) (domainauth.Session, error) {
	tok, err := c.oauthConfig().PasswordCredentialsToken(c.oauthContext(ctx), email, password)
	if err != nil {
		return domainauth.Session{}, normalizeOAuthError(err)
	}

	user, err := c.fetchUser(ctx, tok.AccessToken)
	if err != nil {
		return domainauth.Session{}, err
	}
	return c.storeToken(tok, user), nil
}

func (c *client) DestroySession(ctx context.Context) error {
	if access, ok := c.jar.Get(domainauth.AccessTokenCookie); ok {
		if err := c.do(ctx, http.MethodPost, "/logout", nil, access, nil); err != nil {
			// Server-side revocation failed; still clear the client cookies
			// so the browser ends up signed out.
			c.logger.WarnContext(ctx, "remote logout failed", "error", err)
		}
	}
	c.jar.Clear(domainauth.AccessTokenCookie)
	c.jar.Clear(domainauth.RefreshTokenCookie)
	return nil
}

func (c *client) SendResetEmail(ctx context.Context, email string) error {
	err := c.postJSON(ctx, "/recover", map[string]string{"email": email}, nil)
	if err != nil {
		raw := strings.ToLower(err.Error())
		if strings.Contains(raw, "user not found") || strings.Contains(raw, "not_found") {
			return ports.ErrResetEmailNotFound
		}
		return err
	}
	return nil
}

func (c *client) UpdatePassword(ctx context.Context, newPassword string) error {
	// A reset token from the emailed link takes precedence over the session.
	bearer, ok := c.jar.Get(domainauth.ResetTokenCookie)
	fromReset := ok
	if !ok {
		bearer, ok = c.jar.Get(domainauth.AccessTokenCookie)
	}
	if !ok {
		return errors.New("invalid reset token")
	}

	body := map[string]string{"password": newPassword}
	if err := c.do(ctx, http.MethodPut, "/user", body, bearer, nil); err != nil {
		return err
	}
	if fromReset {
		c.jar.Clear(domainauth.ResetTokenCookie)
	}
	return nil
}

func (c *client) CurrentSession(ctx context.Context) (*domainauth.Session, error) {
	access, ok := c.jar.Get(domainauth.AccessTokenCookie)
	if !ok {
		return nil, nil
	}
	user, err := c.fetchUser(ctx, access)
	if err != nil {
		return nil, err
	}
	refresh, _ := c.jar.Get(domainauth.RefreshTokenCookie)
	return &domainauth.Session{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    domainauth.TokenTypeBearer,
	}, nil
}

func (c *client) CurrentUser(ctx context.Context) (*domainauth.UserRef, error) {
	if access, ok := c.jar.Get(domainauth.AccessTokenCookie); ok {
		user, err := c.fetchUser(ctx, access)
		if err == nil {
			return &user, nil
		}
		if !isUnauthorized(err) {
			return nil, err
		}
	}

	// Missing or rejected access token: attempt one refresh. The rotated
	// cookies land in the jar for the session guard to propagate.
	sess, err := c.RefreshSession(ctx)
	if err != nil || sess == nil {
		return nil, err
	}
	user := sess.User
	return &user, nil
}

func (c *client) RefreshSession(ctx context.Context) (*domainauth.Session, error) {
	refresh, ok := c.jar.Get(domainauth.RefreshTokenCookie)
	if !ok {
		return nil, nil
	}

	src := c.oauthConfig().TokenSource(c.oauthContext(ctx), &oauth2.Token{RefreshToken: refresh})
	tok, err := src.Token()
	if err != nil {
		return nil, normalizeOAuthError(err)
	}

	user, err := c.fetchUser(ctx, tok.AccessToken)
	if err != nil {
		return nil, err
	}
	sess := c.storeToken(tok, user)
	return &sess, nil
}

// storeSession records a JSON session payload's tokens in the jar.
func (c *client) storeSession(resp sessionResponse) (domainauth.Session, error) {
	user, err := resp.User.toDomain()
	if err != nil {
		return domainauth.Session{}, err
	}
	expiresAt := time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	c.jar.Set(domainauth.AccessTokenCookie, resp.AccessToken, int(resp.ExpiresIn))
	c.jar.Set(domainauth.RefreshTokenCookie, resp.RefreshToken, 0)
	return domainauth.Session{
		User:         user,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    domainauth.TokenTypeBearer,
		ExpiresAt:    expiresAt,
	}, nil
}

// storeToken records an OAuth2 token exchange in the jar.
func (c *client) storeToken(tok *oauth2.Token, user domainauth.UserRef) domainauth.Session {
	// A token response without expires_in leaves Expiry zero; a negative
	// MaxAge computed from that would delete the cookie just issued, so such
	// tokens get a session cookie instead.
	maxAge := 0
	if !tok.Expiry.IsZero() {
		maxAge = int(time.Until(tok.Expiry).Seconds())
	}
	c.jar.Set(domainauth.AccessTokenCookie, tok.AccessToken, maxAge)
	if tok.RefreshToken != "" {
		c.jar.Set(domainauth.RefreshTokenCookie, tok.RefreshToken, 0)
	}
	return domainauth.Session{
		User:         user,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    domainauth.TokenTypeBearer,
		ExpiresAt:    tok.Expiry,
	}
}

func (c *client) fetchUser(ctx context.Context, accessToken string) (domainauth.UserRef, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/user", nil, accessToken, &resp); err != nil {
		return domainauth.UserRef{}, err
	}
	return resp.toDomain()
}

func (c *client) postJSON(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, "", out)
}

// do performs one identity API call. Non-2xx responses surface as errors
// carrying the provider's raw message text for the error mapper.
func (c *client) do(ctx context.Context, method, path string, body any, bearer string, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("apikey", c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("identity api %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiStatusError preserves the HTTP status alongside the provider message.
type apiStatusError struct {
	status  int
	message string
}

func (e *apiStatusError) Error() string { return e.message }

// apiError extracts the provider's message text from an error response.
func apiError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	message := ""
	if json.Unmarshal(data, &payload) == nil {
		for _, candidate := range []string{payload.Msg, payload.Message, payload.ErrorDescription, payload.Error} {
			if candidate != "" {
				message = candidate
				break
			}
		}
	}
	if message == "" {
		message = fmt.Sprintf("identity api error (status %d)", resp.StatusCode)
	}
	return &apiStatusError{status: resp.StatusCode, message: message}
}

func isUnauthorized(err error) bool {
	var apiErr *apiStatusError
	return errors.As(err, &apiErr) && apiErr.status == http.StatusUnauthorized
}

// normalizeOAuthError unwraps oauth2 retrieve errors so the mapper sees the
// provider's message rather than the transport wrapper.
func normalizeOAuthError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		if desc := retrieveErr.ErrorDescription; desc != "" {
			return errors.New(desc)
		}
		if code := retrieveErr.ErrorCode; code != "" {
			return errors.New(code)
		}
	}
	return err
}
