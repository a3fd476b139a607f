package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestWithCookie(name, value string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	r.AddCookie(&http.Cookie{Name: name, Value: value})
	return r
}

func TestCookieJar_Get_FromRequest(t *testing.T) {
	jar := NewCookieJar(newRequestWithCookie(AccessTokenCookie, "tok-1"), "")

	value, ok := jar.Get(AccessTokenCookie)

	assert.True(t, ok)
	assert.Equal(t, "tok-1", value)
}

func TestCookieJar_Get_Missing(t *testing.T) {
	jar := NewCookieJar(httptest.NewRequest(http.MethodGet, "/", nil), "")

	_, ok := jar.Get(AccessTokenCookie)

	assert.False(t, ok)
}

func TestCookieJar_MutationsShadowSnapshot(t *testing.T) {
	jar := NewCookieJar(newRequestWithCookie(AccessTokenCookie, "old"), "")

	jar.Set(AccessTokenCookie, "rotated", 3600)

	value, ok := jar.Get(AccessTokenCookie)
	assert.True(t, ok)
	assert.Equal(t, "rotated", value)
}

func TestCookieJar_ClearShadowsSnapshot(t *testing.T) {
	jar := NewCookieJar(newRequestWithCookie(AccessTokenCookie, "old"), "")

	jar.Clear(AccessTokenCookie)

	_, ok := jar.Get(AccessTokenCookie)
	assert.False(t, ok)
}

func TestCookieJar_LastWriteWins(t *testing.T) {
	jar := NewCookieJar(httptest.NewRequest(http.MethodGet, "/", nil), "")

	jar.Set(AccessTokenCookie, "first", 3600)
	jar.Set(AccessTokenCookie, "second", 3600)

	value, ok := jar.Get(AccessTokenCookie)
	assert.True(t, ok)
	assert.Equal(t, "second", value)
}

func TestCookieJar_SetAttributes(t *testing.T) {
	jar := NewCookieJar(httptest.NewRequest(http.MethodGet, "/", nil), "example.com")

	jar.Set(AccessTokenCookie, "tok", 3600)

	muts := jar.Mutations()
	require.Len(t, muts, 1)
	c := muts[0]
	assert.Equal(t, AccessTokenCookie, c.Name)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, "example.com", c.Domain)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 3600, c.MaxAge)
	// Plain HTTP request: Secure stays off so local development works.
	assert.False(t, c.Secure)
}

func TestCookieJar_SecureBehindTLSProxy(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	jar := NewCookieJar(r, "")

	jar.Set(AccessTokenCookie, "tok", 3600)

	require.Len(t, jar.Mutations(), 1)
	assert.True(t, jar.Mutations()[0].Secure)
}

func TestCookieJar_Apply_CopiesAllMutationsInOrder(t *testing.T) {
	jar := NewCookieJar(httptest.NewRequest(http.MethodGet, "/", nil), "")
	jar.Set(AccessTokenCookie, "a", 3600)
	jar.Set(RefreshTokenCookie, "r", 7200)
	jar.Clear(ResetTokenCookie)

	rec := httptest.NewRecorder()
	jar.Apply(rec)

	setCookies := rec.Header().Values("Set-Cookie")
	require.Len(t, setCookies, 3)
	assert.Contains(t, setCookies[0], AccessTokenCookie+"=a")
	assert.Contains(t, setCookies[1], RefreshTokenCookie+"=r")
	assert.Contains(t, setCookies[2], ResetTokenCookie+"=")
	assert.Contains(t, setCookies[2], "Max-Age=0")
}

func TestCookieJar_Apply_NoMutationsWritesNothing(t *testing.T) {
	jar := NewCookieJar(newRequestWithCookie(AccessTokenCookie, "tok"), "")

	rec := httptest.NewRecorder()
	jar.Apply(rec)

	assert.Empty(t, rec.Header().Values("Set-Cookie"))
}
