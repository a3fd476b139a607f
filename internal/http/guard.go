package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	domainauth "github.com/gatehouse/gatehouse/internal/domain/auth"
	"github.com/gatehouse/gatehouse/internal/ports"
)

// RouteClass is the static categorization of a request path.
type RouteClass int

const (
	// RoutePublic paths are reachable by everyone.
	RoutePublic RouteClass = iota
	// RouteProtected paths require a resolved user.
	RouteProtected
	// RouteAuthOnly paths (login, signup, reset pages) are for signed-out users;
	// an authenticated user is bounced to the landing page instead.
	RouteAuthOnly
)

// RouteClassifier classifies request paths by ordered prefix match.
// Protected prefixes are checked before auth-only prefixes.
type RouteClassifier struct {
	protected []string
	authOnly  []string
}

// NewRouteClassifier builds a classifier from ordered prefix lists.
func NewRouteClassifier(protected, authOnly []string) *RouteClassifier {
	return &RouteClassifier{
		protected: append([]string(nil), protected...),
		authOnly:  append([]string(nil), authOnly...),
	}
}

// Classify returns the class of a request path.
func (c *RouteClassifier) Classify(path string) RouteClass {
	for _, p := range c.protected {
		if strings.HasPrefix(path, p) {
			return RouteProtected
		}
	}
	for _, p := range c.authOnly {
		if strings.HasPrefix(path, p) {
			return RouteAuthOnly
		}
	}
	return RoutePublic
}

// GuardOptions configures the session guard.
type GuardOptions struct {
	// Factory binds an identity provider to each request's cookies. A nil
	// factory (provider unconfigurable) switches the guard into degraded mode.
	Factory ports.IdentityClientFactory
	// Routes classifies request paths.
	Routes *RouteClassifier
	// LoginPath is where unauthenticated users on protected paths are sent.
	LoginPath string
	// LandingPath is where authenticated users on auth-only paths are sent.
	LandingPath string
	// CookieDomain scopes session cookie mutations; empty uses the request host.
	CookieDomain string
	Logger       *slog.Logger
}

// SessionGuard returns the route-protection middleware. Per request it
// classifies the path, resolves the user through the identity provider exactly
// once, copies every cookie mutation the provider made onto the outgoing
// response, and then allows or redirects.
//
// The ordering here is load-bearing. The cookie jar is bound to the outgoing
// response before the user lookup, and nothing runs between client
// construction and that lookup: an early return in between would skip the
// lookup and drop the provider's cookie writes, desynchronizing browser and
// server session state on subsequent requests.
func SessionGuard(opts GuardOptions) func(http.Handler) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	loginPath := opts.LoginPath
	if loginPath == "" {
		loginPath = "/login"
	}
	landingPath := opts.LandingPath
	if landingPath == "" {
		landingPath = "/"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := opts.Routes.Classify(r.URL.Path)

			if opts.Factory == nil {
				guardDegraded(w, r, next, degradedParams{class: class, loginPath: loginPath})
				return
			}

			jar := domainauth.NewCookieJar(r, opts.CookieDomain)
			client, err := opts.Factory.ForRequest(jar)
			if err != nil {
				// Provider unconfigurable for this request: never fail open
				// broadly, never fail closed broadly. Protected paths still
				// redirect to login; everything else passes through.
				logger.Warn("identity client unavailable, guard degraded", "error", err)
				guardDegraded(w, r, next, degradedParams{class: class, loginPath: loginPath})
				return
			}

			// Single user lookup per request, immediately after client
			// construction. A provider error is treated the same as "no user":
			// the guard degrades to unauthenticated rather than failing the
			// request.
			user, lookupErr := client.CurrentUser(r.Context())
			if lookupErr != nil {
				logger.Debug("user lookup failed, treating as unauthenticated", "error", lookupErr)
				user = nil
			}

			// Whatever tokens the provider rotated during the lookup must
			// land on the outgoing response.
			jar.Apply(w)

			switch {
			case class == RouteProtected && user == nil:
				redirectToLogin(w, r, loginPath)
			case class == RouteAuthOnly && user != nil:
				http.Redirect(w, r, landingPath, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r.WithContext(SetUserInContext(r.Context(), user)))
			}
		})
	}
}

type degradedParams struct {
	class     RouteClass
	loginPath string
}

// guardDegraded handles requests when no identity provider can be built.
func guardDegraded(w http.ResponseWriter, r *http.Request, next http.Handler, p degradedParams) {
	if p.class == RouteProtected {
		redirectToLogin(w, r, p.loginPath)
		return
	}
	next.ServeHTTP(w, r)
}

// redirectToLogin sends the user to the login page with the current URL as
// redirect_uri so they can land back where they started after signing in.
func redirectToLogin(w http.ResponseWriter, r *http.Request, loginPath string) {
	redirectPath := safeRedirectPath(r.URL.RequestURI())
	if redirectPath == "" {
		redirectPath = "/"
	}
	loginURL := loginPath + "?redirect_uri=" + url.QueryEscape(redirectPath)
	http.Redirect(w, r, loginURL, http.StatusSeeOther)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative
// path starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
