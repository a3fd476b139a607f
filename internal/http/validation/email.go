package validation

import (
	"regexp"
	"strings"
)

// Exactly one @, no embedded whitespace, at least one dot in the domain part.
// Deliberately permissive: a stricter pattern would reject RFC-valid edge-case
// addresses and silently change which inputs this layer accepts.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	msgEmailRequired = "Email is required"
	msgEmailInvalid  = "Please enter a valid email address"
)

// ValidateEmail format-checks an email address.
func ValidateEmail(email string) Result {
	if strings.TrimSpace(email) == "" {
		return newResult(map[string]string{"email": msgEmailRequired})
	}
	if !emailPattern.MatchString(email) {
		return newResult(map[string]string{"email": msgEmailInvalid})
	}
	return newResult(nil)
}
