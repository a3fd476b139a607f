package validation

import (
	"regexp"
	"strings"
)

var (
	angleBrackets = regexp.MustCompile(`[<>]`)
	jsProtocol    = regexp.MustCompile(`(?i)javascript:`)
	eventHandler  = regexp.MustCompile(`(?i)on\w+=`)
)

// Sanitize strips dangerous substrings from free-text input: leading/trailing
// whitespace, angle brackets, "javascript:" protocol prefixes, and inline
// event-handler attributions ("onclick=", "onerror=", ...). It is idempotent:
// removing a substring can splice its fragments into a fresh match
// ("jajavascript:vascript:" loses the inner occurrence and becomes
// "javascript:"), so the removals repeat until the input stops changing, and
// whitespace exposed by stripping is trimmed after, not before.
//
// Never apply Sanitize to passwords. Legitimate passwords may contain any of
// these characters, and stripping them would change the credential the user
// intended to submit.
func Sanitize(input string) string {
	s := input
	for {
		next := angleBrackets.ReplaceAllString(s, "")
		next = jsProtocol.ReplaceAllString(next, "")
		next = eventHandler.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}
