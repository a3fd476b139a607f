package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name        string
		email       string
		valid       bool
		expectedMsg string
	}{
		{
			name:  "simple address",
			email: "a@b.com",
			valid: true,
		},
		{
			name:  "address with plus tag",
			email: "user+tag@example.co.uk",
			valid: true,
		},
		{
			name:        "empty",
			email:       "",
			valid:       false,
			expectedMsg: "Email is required",
		},
		{
			name:        "whitespace only",
			email:       "   ",
			valid:       false,
			expectedMsg: "Email is required",
		},
		{
			name:        "missing at sign",
			email:       "userexample.com",
			valid:       false,
			expectedMsg: "Please enter a valid email address",
		},
		{
			name:        "missing domain dot",
			email:       "user@example",
			valid:       false,
			expectedMsg: "Please enter a valid email address",
		},
		{
			name:        "double at sign",
			email:       "user@@example.com",
			valid:       false,
			expectedMsg: "Please enter a valid email address",
		},
		{
			name:        "embedded whitespace",
			email:       "user name@example.com",
			valid:       false,
			expectedMsg: "Please enter a valid email address",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateEmail(tt.email)

			assert.Equal(t, tt.valid, result.Valid)
			if tt.valid {
				assert.Empty(t, result.Errors)
				return
			}
			assert.Equal(t, tt.expectedMsg, result.Errors["email"])
		})
	}
}

func TestValidateEmail_ReturnsFreshErrorMap(t *testing.T) {
	first := ValidateEmail("a@b.com")
	first.Errors["email"] = "mutated"

	second := ValidateEmail("a@b.com")
	assert.Empty(t, second.Errors)
}
