package validation

import "strings"

const msgPasswordsMismatch = "Passwords do not match"

// SignUpForm is the raw signup submission. ConfirmPassword is optional; when
// supplied it must match Password.
type SignUpForm struct {
	Email           string
	Password        string
	ConfirmPassword *string
}

// LoginForm is the raw login submission.
type LoginForm struct {
	Email    string
	Password string
}

// ResetPasswordForm is dual-mode: the request phase supplies Email, the
// confirm phase supplies Password (and optionally ConfirmPassword). Fields
// not supplied are not validated; the caller picks the phase by what it sends.
type ResetPasswordForm struct {
	Email           *string
	Password        *string
	ConfirmPassword *string
}

// ValidateSignUpForm sanitizes the email, then applies the email and password
// validators and the confirm-match rule, reporting all field errors together.
func ValidateSignUpForm(form SignUpForm) Result {
	email := Sanitize(form.Email)

	errs := merge(
		ValidateEmail(email).Errors,
		ValidatePassword(form.Password).Errors,
	)
	if form.ConfirmPassword != nil && *form.ConfirmPassword != form.Password {
		errs["confirmPassword"] = msgPasswordsMismatch
	}
	return newResult(errs)
}

// ValidateLoginForm sanitizes and validates the email and requires a non-empty
// password. Login deliberately does not re-check password strength: a password
// that predates a stricter policy must still be allowed to authenticate.
func ValidateLoginForm(form LoginForm) Result {
	email := Sanitize(form.Email)

	errs := merge(ValidateEmail(email).Errors)
	if strings.TrimSpace(form.Password) == "" {
		errs["password"] = msgPasswordRequired
	}
	return newResult(errs)
}

// ValidateResetPasswordForm validates whichever phase's fields are present.
func ValidateResetPasswordForm(form ResetPasswordForm) Result {
	errs := map[string]string{}

	if form.Email != nil {
		errs = merge(errs, ValidateEmail(Sanitize(*form.Email)).Errors)
	}
	if form.Password != nil {
		errs = merge(errs, ValidatePassword(*form.Password).Errors)
		if form.ConfirmPassword != nil && *form.ConfirmPassword != *form.Password {
			errs["confirmPassword"] = msgPasswordsMismatch
		}
	}
	return newResult(errs)
}
