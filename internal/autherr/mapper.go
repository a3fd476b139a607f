package autherr

import "strings"

// userMessages are the fixed messages surfaced to end users, one per code.
var userMessages = map[Code]string{
	CodeInvalidCredentials: "Invalid email or password",
	CodeEmailExists:        "An account with this email already exists",
	CodeInvalidEmail:       "Please enter a valid email address",
	CodeWeakPassword:       "Password does not meet security requirements",
	CodeSessionExpired:     "Your session has expired. Please sign in again",
	CodeInvalidResetToken:  "This password reset link is invalid or has expired",
	CodeRateLimited:        "Too many attempts. Please try again later",
	CodeServerError:        "An unexpected error occurred. Please try again",
}

// Message returns the fixed user-facing message for a code.
func Message(code Code) string {
	return messageFor(code)
}

// MapProviderError translates an opaque provider error into an AuthError by
// inspecting the raw text for known substrings, first match wins.
//
// The priority order is a security contract, not an implementation detail.
// Credential failures must classify before the broader "email" rule so the
// result never reveals which field was wrong; do not reorder.
func MapProviderError(err error) *AuthError {
	if err == nil {
		return nil
	}
	raw := strings.ToLower(err.Error())

	switch {
	case strings.Contains(raw, "already registered") || strings.Contains(raw, "already exists"):
		return Wrap(err, CodeEmailExists)

	case strings.Contains(raw, "invalid login credentials") || strings.Contains(raw, "invalid_credentials"):
		return Wrap(err, CodeInvalidCredentials)

	case strings.Contains(raw, "password") && strings.Contains(raw, "weak"):
		return Wrap(err, CodeWeakPassword)

	case strings.Contains(raw, "email"):
		return Wrap(err, CodeInvalidEmail)

	case strings.Contains(raw, "expired") || strings.Contains(raw, "session"):
		return Wrap(err, CodeSessionExpired)

	case strings.Contains(raw, "token") && (strings.Contains(raw, "invalid") || strings.Contains(raw, "expired")):
		return Wrap(err, CodeInvalidResetToken)

	case strings.Contains(raw, "rate") || strings.Contains(raw, "too many"):
		return Wrap(err, CodeRateLimited)

	default:
		return Wrap(err, CodeServerError)
	}
}
