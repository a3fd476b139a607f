package validation

import "strings"

const (
	msgPasswordRequired = "Password is required"
	minPasswordLength   = 8
	specialCharacters   = `!@#$%^&*()_+-=[]{};'"\|,.<>/?`
)

// passwordRule pairs a policy check with the message fragment reported when it
// is violated. Rules are evaluated independently (no short-circuit) and the
// fragment order below is the reporting order; tests pin it.
type passwordRule struct {
	fragment string
	ok       func(string) bool
}

var passwordRules = []passwordRule{
	{"at least 8 characters", func(s string) bool { return len(s) >= minPasswordLength }},
	{"one uppercase letter", func(s string) bool { return strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") }},
	{"one lowercase letter", func(s string) bool { return strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") }},
	{"one number", func(s string) bool { return strings.ContainsAny(s, "0123456789") }},
	{"one special character", func(s string) bool { return strings.ContainsAny(s, specialCharacters) }},
}

// ValidatePassword checks a password against the strength policy. A blank
// password short-circuits to a single "required" error; otherwise every
// violated rule is reported together in one message.
func ValidatePassword(password string) Result {
	if strings.TrimSpace(password) == "" {
		return newResult(map[string]string{"password": msgPasswordRequired})
	}

	var missing []string
	for _, rule := range passwordRules {
		if !rule.ok(password) {
			missing = append(missing, rule.fragment)
		}
	}
	if len(missing) > 0 {
		return newResult(map[string]string{
			"password": "Password must contain " + strings.Join(missing, ", "),
		})
	}
	return newResult(nil)
}
