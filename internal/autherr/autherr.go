package autherr

import (
	"errors"
	"fmt"
)

// Code categorizes a user-facing authentication error. The set is closed:
// every provider failure maps to exactly one of these.
type Code string

const (
	// CodeInvalidCredentials covers any failed credential check. The message is
	// deliberately generic and never reveals which field was wrong.
	CodeInvalidCredentials Code = "invalid_credentials"
	// CodeEmailExists indicates the address is already registered.
	CodeEmailExists Code = "email_exists"
	// CodeInvalidEmail indicates the provider rejected the email address.
	CodeInvalidEmail Code = "invalid_email"
	// CodeWeakPassword indicates the provider rejected the password strength.
	CodeWeakPassword Code = "weak_password"
	// CodeSessionExpired indicates the session is no longer valid.
	CodeSessionExpired Code = "session_expired"
	// CodeInvalidResetToken indicates the reset link is invalid or expired.
	CodeInvalidResetToken Code = "invalid_reset_token"
	// CodeRateLimited indicates too many attempts in a short window.
	CodeRateLimited Code = "rate_limited"
	// CodeServerError is the fallback for anything unclassified.
	CodeServerError Code = "server_error"
)

// AuthError is a structured, user-facing authentication error. It is only
// constructed by MapProviderError (and tests); nothing else builds one ad hoc,
// so raw provider text can never reach an end user.
type AuthError struct {
	// Code categorizes the error.
	Code Code
	// Message is the fixed user-facing message for the code.
	Message string
	// Cause is the underlying provider error, kept for logs and errors.Is.
	Cause error
	// Details carries optional structured context (never shown to users).
	Details map[string]string
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AuthError) Unwrap() error {
	return e.Cause
}

// isCode checks if an error carries a specific code.
func isCode(err error, code Code) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Code == code
}

// IsInvalidCredentials checks for CodeInvalidCredentials.
func IsInvalidCredentials(err error) bool { return isCode(err, CodeInvalidCredentials) }

// IsEmailExists checks for CodeEmailExists.
func IsEmailExists(err error) bool { return isCode(err, CodeEmailExists) }

// IsSessionExpired checks for CodeSessionExpired.
func IsSessionExpired(err error) bool { return isCode(err, CodeSessionExpired) }

// IsRateLimited checks for CodeRateLimited.
func IsRateLimited(err error) bool { return isCode(err, CodeRateLimited) }

// IsServerError checks for CodeServerError.
func IsServerError(err error) bool { return isCode(err, CodeServerError) }

// GetCode returns the Code from an error, or empty string if it is not an AuthError.
func GetCode(err error) Code {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Code
	}
	return ""
}

// Wrap attaches a code and its fixed message to an underlying error.
func Wrap(err error, code Code) *AuthError {
	if err == nil {
		return nil
	}
	return &AuthError{
		Code:    code,
		Message: messageFor(code),
		Cause:   err,
	}
}

func messageFor(code Code) string {
	if msg, ok := userMessages[code]; ok {
		return msg
	}
	return fmt.Sprintf("unexpected error (%s)", code)
}
