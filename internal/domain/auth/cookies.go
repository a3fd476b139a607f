package auth

import (
	"net/http"
	"strings"
	"time"
)

// Cookie names identity adapters use to carry session tokens. The core never
// reads or interprets the values; it only relays the adapters' mutations.
const (
	AccessTokenCookie  = "gh_access_token"
	RefreshTokenCookie = "gh_refresh_token"
	ResetTokenCookie   = "gh_reset_token"
)

// CookieJar splits cookie ownership for a single request. The incoming request
// owns the read-only snapshot; the outgoing response owns the mutation log.
// Every mutation an identity provider records while resolving or refreshing a
// session must reach the outgoing response via Apply, or browser and server
// session state desynchronize and users get intermittently signed out.
type CookieJar struct {
	request   *http.Request
	domain    string
	secure    bool
	mutations []*http.Cookie
}

// NewCookieJar builds a jar over the incoming request. The domain is applied
// to every mutation; leave it empty to scope cookies to the request host.
func NewCookieJar(r *http.Request, domain string) *CookieJar {
	secure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	return &CookieJar{
		request: r,
		domain:  domain,
		secure:  secure,
	}
}

// Get returns the current value of a cookie. Mutations recorded during this
// request shadow the incoming snapshot, so a provider that rotates a token
// mid-request reads back its own write.
func (j *CookieJar) Get(name string) (string, bool) {
	for i := len(j.mutations) - 1; i >= 0; i-- {
		if j.mutations[i].Name == name {
			if j.mutations[i].MaxAge < 0 {
				return "", false
			}
			return j.mutations[i].Value, true
		}
	}
	c, err := j.request.Cookie(name)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

// Set records a cookie write with the session-cookie attributes: HTTP-only,
// Secure on HTTPS, SameSite=Lax, Path=/.
func (j *CookieJar) Set(name, value string, maxAge int) {
	j.mutations = append(j.mutations, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   j.domain,
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// Clear records a cookie deletion, mirroring the attributes used when setting
// so browsers match the cookie during deletion.
func (j *CookieJar) Clear(name string) {
	j.mutations = append(j.mutations, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   j.domain,
		HttpOnly: true,
		Secure:   j.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
}

// Mutations returns the ordered mutation log.
func (j *CookieJar) Mutations() []*http.Cookie {
	return j.mutations
}

// Apply copies every recorded mutation onto the outgoing response, in order.
func (j *CookieJar) Apply(w http.ResponseWriter) {
	for _, c := range j.mutations {
		http.SetCookie(w, c)
	}
}
