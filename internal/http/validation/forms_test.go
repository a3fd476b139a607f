package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateSignUpForm(t *testing.T) {
	t.Run("valid submission", func(t *testing.T) {
		result := ValidateSignUpForm(SignUpForm{
			Email:    "a@b.com",
			Password: "Abcdef1!",
		})

		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	t.Run("email is sanitized before validation", func(t *testing.T) {
		result := ValidateSignUpForm(SignUpForm{
			Email:    "  a@b.com  ",
			Password: "Abcdef1!",
		})

		assert.True(t, result.Valid)
	})

	t.Run("reports email and password errors together", func(t *testing.T) {
		result := ValidateSignUpForm(SignUpForm{
			Email:    "not-an-email",
			Password: "weak",
		})

		require.False(t, result.Valid)
		assert.Contains(t, result.Errors, "email")
		assert.Contains(t, result.Errors, "password")
	})

	t.Run("confirm password mismatch", func(t *testing.T) {
		result := ValidateSignUpForm(SignUpForm{
			Email:           "a@b.com",
			Password:        "Abcdef1!",
			ConfirmPassword: strPtr("Different1!"),
		})

		require.False(t, result.Valid)
		assert.Equal(t, "Passwords do not match", result.Errors["confirmPassword"])
	})

	t.Run("confirm password omitted is not checked", func(t *testing.T) {
		result := ValidateSignUpForm(SignUpForm{
			Email:    "a@b.com",
			Password: "Abcdef1!",
		})

		assert.True(t, result.Valid)
	})

	t.Run("password is not sanitized", func(t *testing.T) {
		// Angle brackets satisfy the special character rule; if the password
		// were sanitized they would be stripped and matching would break.
		result := ValidateSignUpForm(SignUpForm{
			Email:           "a@b.com",
			Password:        "Abcdef1<",
			ConfirmPassword: strPtr("Abcdef1<"),
		})

		assert.True(t, result.Valid)
	})
}

func TestValidateLoginForm(t *testing.T) {
	t.Run("valid submission", func(t *testing.T) {
		result := ValidateLoginForm(LoginForm{
			Email:    "a@b.com",
			Password: "anything",
		})

		assert.True(t, result.Valid)
	})

	t.Run("weak password still accepted", func(t *testing.T) {
		// Strength is only enforced at signup; existing credentials must
		// still be able to log in.
		result := ValidateLoginForm(LoginForm{
			Email:    "a@b.com",
			Password: "old",
		})

		assert.True(t, result.Valid)
	})

	t.Run("empty password rejected", func(t *testing.T) {
		result := ValidateLoginForm(LoginForm{
			Email:    "a@b.com",
			Password: "",
		})

		require.False(t, result.Valid)
		assert.Equal(t, "Password is required", result.Errors["password"])
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		result := ValidateLoginForm(LoginForm{
			Email:    "nope",
			Password: "anything",
		})

		require.False(t, result.Valid)
		assert.Contains(t, result.Errors, "email")
	})
}

func TestValidateResetPasswordForm(t *testing.T) {
	t.Run("request phase validates email only", func(t *testing.T) {
		result := ValidateResetPasswordForm(ResetPasswordForm{
			Email: strPtr("a@b.com"),
		})

		assert.True(t, result.Valid)
	})

	t.Run("request phase rejects bad email", func(t *testing.T) {
		result := ValidateResetPasswordForm(ResetPasswordForm{
			Email: strPtr("nope"),
		})

		require.False(t, result.Valid)
		assert.Contains(t, result.Errors, "email")
	})

	t.Run("confirm phase validates password strength", func(t *testing.T) {
		result := ValidateResetPasswordForm(ResetPasswordForm{
			Password: strPtr("weak"),
		})

		require.False(t, result.Valid)
		assert.Contains(t, result.Errors, "password")
	})

	t.Run("confirm phase checks match", func(t *testing.T) {
		result := ValidateResetPasswordForm(ResetPasswordForm{
			Password:        strPtr("Abcdef1!"),
			ConfirmPassword: strPtr("Other1!a"),
		})

		require.False(t, result.Valid)
		assert.Equal(t, "Passwords do not match", result.Errors["confirmPassword"])
	})

	t.Run("absent fields are not validated", func(t *testing.T) {
		result := ValidateResetPasswordForm(ResetPasswordForm{})

		assert.True(t, result.Valid)
	})
}
