package httpx

import (
	"log/slog"
	"net/http"

	"github.com/gatehouse/gatehouse/internal/ports"
)

// RouterServices groups everything the router needs.
type RouterServices struct {
	// AuthFactory may be nil when no identity provider could be configured;
	// auth endpoints then answer 503 and the guard runs in degraded mode.
	AuthFactory ports.IdentityClientFactory
	// Routes classifies paths for the session guard.
	Routes *RouteClassifier
	// LoginPath and LandingPath are the guard's redirect targets.
	LoginPath   string
	LandingPath string
	// CookieDomain scopes session cookies.
	CookieDomain string
	Logger       *slog.Logger
}

// NewRouter builds the HTTP handler chain: recover → logging → session guard → mux.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		Factory:      services.AuthFactory,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	}
	registerAuthRoutes(mux, authHandlers)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))

	guard := SessionGuard(GuardOptions{
		Factory:      services.AuthFactory,
		Routes:       services.Routes,
		LoginPath:    services.LoginPath,
		LandingPath:  services.LandingPath,
		CookieDomain: services.CookieDomain,
		Logger:       logger,
	})

	var handler http.Handler = guard(mux)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.Handle("POST /auth/signup", http.HandlerFunc(h.SignUp))
	mux.Handle("POST /auth/login", http.HandlerFunc(h.Login))
	mux.Handle("POST /auth/logout", http.HandlerFunc(h.Logout))
	mux.Handle("POST /auth/reset-password", http.HandlerFunc(h.ResetPasswordRequest))
	mux.Handle("POST /auth/reset-password/confirm", http.HandlerFunc(h.ResetPasswordConfirm))
	mux.Handle("GET /auth/session", http.HandlerFunc(h.Session))
	mux.Handle("POST /auth/refresh", http.HandlerFunc(h.Refresh))
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
