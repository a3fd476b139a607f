package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gatehouse/gatehouse/internal/autherr"
	domainauth "github.com/gatehouse/gatehouse/internal/domain/auth"
	"github.com/gatehouse/gatehouse/internal/http/validation"
	"github.com/gatehouse/gatehouse/internal/ports"
	"github.com/gatehouse/gatehouse/internal/service"
)

// AuthHandlers provides HTTP handlers for authentication operations.
// Each handler binds a request-scoped identity provider to the request's
// cookie jar, runs the form validators, delegates to the auth service, and
// applies any cookie mutations before writing the response.
type AuthHandlers struct {
	Factory      ports.IdentityClientFactory
	CookieDomain string
	Logger       *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// serviceFor builds a request-scoped auth service and its cookie jar.
// Returns ok=false (response already written) when the provider is unavailable.
func (h *AuthHandlers) serviceFor(w http.ResponseWriter, r *http.Request) (*service.AuthService, *domainauth.CookieJar, bool) {
	if h.Factory == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "auth_unavailable",
			Err:     errors.New("authentication is not configured"),
		})
		return nil, nil, false
	}

	jar := domainauth.NewCookieJar(r, h.CookieDomain)
	client, err := h.Factory.ForRequest(jar)
	if err != nil {
		h.logger().WarnContext(r.Context(), "identity client unavailable", "error", err)
		WriteError(w, ErrorParams{
			Code:    http.StatusServiceUnavailable,
			ErrCode: "auth_unavailable",
			Err:     errors.New("authentication is not configured"),
		})
		return nil, nil, false
	}

	svc := service.NewAuthService(service.AuthServiceOptions{Provider: client, Logger: h.Logger})
	return svc, jar, true
}

// signUpRequest is the signup submission body.
type signUpRequest struct {
	Email           string  `json:"email"`
	Password        string  `json:"password"`
	ConfirmPassword *string `json:"confirm_password,omitempty"`
}

// SignUp handles account registration.
// POST /auth/signup.
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result := validation.ValidateSignUpForm(validation.SignUpForm{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if !result.Valid {
		WriteFieldErrors(w, result.Errors)
		return
	}

	svc, jar, ok := h.serviceFor(w, r)
	if !ok {
		return
	}

	auth, err := svc.SignUp(r.Context(), validation.Sanitize(req.Email), req.Password)
	jar.Apply(w)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{
		"user":       userPayload(auth.User),
		"expires_at": auth.Session.ExpiresAt,
	})
}

// loginRequest is the login submission body.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles credential sign-in.
// POST /auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result := validation.ValidateLoginForm(validation.LoginForm{
		Email:    req.Email,
		Password: req.Password,
	})
	if !result.Valid {
		WriteFieldErrors(w, result.Errors)
		return
	}

	svc, jar, ok := h.serviceFor(w, r)
	if !ok {
		return
	}

	auth, err := svc.SignIn(r.Context(), validation.Sanitize(req.Email), req.Password)
	jar.Apply(w)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":       userPayload(auth.User),
		"expires_at": auth.Session.ExpiresAt,
	})
}

// Logout destroys the current session and clears its cookies.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	svc, jar, ok := h.serviceFor(w, r)
	if !ok {
		return
	}

	err := svc.SignOut(r.Context())
	jar.Apply(w)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// resetRequestBody is the reset-request submission body.
type resetRequestBody struct {
	Email string `json:"email"`
}

// ResetPasswordRequest asks the provider to send a reset email. The response
// is identical whether or not the address is registered.
// POST /auth/reset-password.
func (h *AuthHandlers) ResetPasswordRequest(w http.ResponseWriter, r *http.Request) {
	var req resetRequestBody
	if !DecodeJSON(w, r, &req) {
		return
	}

	result := validation.ValidateResetPasswordForm(validation.ResetPasswordForm{Email: &req.Email})
	if !result.Valid {
		WriteFieldErrors(w, result.Errors)
		return
	}

	svc, jar, ok := h.serviceFor(w, r)
	if !ok {
		return
	}

	err := svc.ResetPasswordRequest(r.Context(), validation.Sanitize(req.Email))
	jar.Apply(w)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// resetConfirmBody is the reset-confirm submission body.
type resetConfirmBody struct {
	Password        string  `json:"password"`
	ConfirmPassword *string `json:"confirm_password,omitempty"`
}

// ResetPasswordConfirm sets a new password using the provider's reset context.
// POST /auth/reset-password/confirm.
func (h *AuthHandlers) ResetPasswordConfirm(w http.ResponseWriter, r *http.Request) {
	var req resetConfirmBody
	if !DecodeJSON(w, r, &req) {
		return
	}

	result := validation.ValidateResetPasswordForm(validation.ResetPasswordForm{
		Password:        &req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if !result.Valid {
		WriteFieldErrors(w, result.Errors)
		return
	}

	svc, jar, ok := h.serviceFor(w, r)
	if !ok {
		return
	}

	err := svc.ResetPassword(r.Context(), req.Password)
	jar.Apply(w)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "password_updated"})
}

// Session returns the current authentication status.
// GET /auth/session.
func (h *AuthHandlers) Session(w http.ResponseWriter, r *http.Request) {
	svc, jar, ok := h.serviceFor(w, r)
	if !ok {
		return
	}

	sess := svc.GetSession(r.Context())
	jar.Apply(w)
	if sess == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          userPayload(&sess.User),
		"expires_at":    sess.ExpiresAt,
	})
}

// Refresh rotates the session tokens.
// POST /auth/refresh.
func (h *AuthHandlers) Refresh(w http.ResponseWriter, r *http.Request) {
	svc, jar, ok := h.serviceFor(w, r)
	if !ok {
		return
	}

	sess := svc.RefreshSession(r.Context())
	jar.Apply(w)
	if sess == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"expires_at":    sess.ExpiresAt,
	})
}

// userPayload shapes a user for JSON responses.
func userPayload(u *domainauth.UserRef) map[string]any {
	if u == nil {
		return nil
	}
	return map[string]any{
		"id":                 u.ID,
		"email":              u.Email,
		"email_confirmed_at": u.EmailConfirmedAt,
		"created_at":         u.CreatedAt,
		"last_sign_in_at":    u.LastSignInAt,
	}
}

// writeAuthError translates a mapped auth error into an HTTP response.
func writeAuthError(w http.ResponseWriter, err error) {
	code := autherr.GetCode(err)
	if code == "" {
		code = autherr.CodeServerError
	}
	// Always surface the fixed message for the code, never raw provider text.
	WriteError(w, ErrorParams{
		Code:    statusForCode(code),
		ErrCode: string(code),
		Err:     errors.New(autherr.Message(code)),
	})
}

func statusForCode(code autherr.Code) int {
	switch code {
	case autherr.CodeInvalidCredentials, autherr.CodeSessionExpired:
		return http.StatusUnauthorized
	case autherr.CodeEmailExists:
		return http.StatusConflict
	case autherr.CodeInvalidEmail, autherr.CodeWeakPassword, autherr.CodeInvalidResetToken:
		return http.StatusBadRequest
	case autherr.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
