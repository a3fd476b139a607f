package autherr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeServerError)

	require.NotNil(t, err)
	assert.Equal(t, CodeServerError, err.Code)
	assert.Equal(t, "An unexpected error occurred. Please try again", err.Message)
	assert.Equal(t, err.Message, err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestWrap_NilError(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeServerError))
}

func TestCodeHelpers(t *testing.T) {
	invalid := Wrap(errors.New("x"), CodeInvalidCredentials)
	expired := Wrap(errors.New("x"), CodeSessionExpired)

	assert.True(t, IsInvalidCredentials(invalid))
	assert.False(t, IsInvalidCredentials(expired))
	assert.True(t, IsSessionExpired(expired))
	assert.False(t, IsSessionExpired(errors.New("plain")))
}

func TestCodeHelpers_WrappedDeeper(t *testing.T) {
	inner := Wrap(errors.New("x"), CodeRateLimited)
	outer := fmt.Errorf("handling request: %w", inner)

	assert.True(t, IsRateLimited(outer))
	assert.Equal(t, CodeRateLimited, GetCode(outer))
}

func TestGetCode_NotAuthError(t *testing.T) {
	assert.Equal(t, Code(""), GetCode(errors.New("plain")))
	assert.Equal(t, Code(""), GetCode(nil))
}

func TestMessage_CoversEveryCode(t *testing.T) {
	codes := []Code{
		CodeInvalidCredentials,
		CodeEmailExists,
		CodeInvalidEmail,
		CodeWeakPassword,
		CodeSessionExpired,
		CodeInvalidResetToken,
		CodeRateLimited,
		CodeServerError,
	}

	for _, code := range codes {
		msg := Message(code)
		assert.NotEmpty(t, msg)
		assert.NotContains(t, msg, "unexpected error (", "code %s has no fixed message", code)
	}
}
