package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain text unchanged",
			input:    "hello world",
			expected: "hello world",
		},
		{
			name:     "trims surrounding whitespace",
			input:    "  user@example.com  ",
			expected: "user@example.com",
		},
		{
			name:     "strips angle brackets",
			input:    "<script>alert(1)</script>",
			expected: "scriptalert(1)/script",
		},
		{
			name:     "strips javascript protocol",
			input:    "javascript:alert(1)",
			expected: "alert(1)",
		},
		{
			name:     "javascript protocol is case insensitive",
			input:    "JaVaScRiPt:alert(1)",
			expected: "alert(1)",
		},
		{
			name:     "strips event handler attributes",
			input:    "x onclick=evil() y",
			expected: "x evil() y",
		},
		{
			name:     "event handler is case insensitive",
			input:    "ONLOAD=bad",
			expected: "bad",
		},
		{
			name:     "whitespace exposed by bracket stripping is trimmed",
			input:    "< a >",
			expected: "a",
		},
		{
			name:     "spliced javascript protocol fully removed",
			input:    "jajavascript:vascript:alert(1)",
			expected: "alert(1)",
		},
		{
			name:     "nested event handler fully removed",
			input:    "oonclick=nclick=evil()",
			expected: "evil()",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "whitespace only",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sanitize(tt.input))
		})
	}
}

func TestSanitize_Idempotent(t *testing.T) {
	inputs := []string{
		"hello world",
		"  user@example.com  ",
		"<b>bold</b>",
		"javascript:alert(1)",
		"x onclick=evil()",
		"< a >",
		"  <  spaced  >  ",
		"jajavascript:vascript:alert(1)",
		"javascrijavascript:pt:alert(1)",
		"oonclick=nclick=evil()",
	}

	for _, input := range inputs {
		once := Sanitize(input)
		assert.Equal(t, once, Sanitize(once), "input %q", input)
	}
}
