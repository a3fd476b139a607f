package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gatehouse/gatehouse/config"
	httpx "github.com/gatehouse/gatehouse/internal/http"
	"github.com/gatehouse/gatehouse/internal/ports"
)

const shutdownTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config  *config.AppConfig
	Factory ports.IdentityClientFactory
	Logger  *slog.Logger
}

// BuildHTTPHandler assembles the full request handler.
func BuildHTTPHandler(cfg *HTTPServerConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	return httpx.NewRouter(httpx.RouterServices{
		AuthFactory:  cfg.Factory,
		Routes:       httpx.NewRouteClassifier(appCfg.HTTP.ProtectedPrefixes, appCfg.HTTP.AuthOnlyPrefixes),
		LoginPath:    appCfg.HTTP.LoginPath,
		LandingPath:  appCfg.HTTP.LandingPath,
		CookieDomain: appCfg.HTTP.CookieDomain,
		Logger:       logger,
	})
}

// RunHTTPServer serves until ctx is cancelled, then shuts down gracefully.
func RunHTTPServer(ctx context.Context, cfg *HTTPServerConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	addr := ":8080"
	if cfg.Config != nil && cfg.Config.HTTP.Addr != "" {
		addr = cfg.Config.HTTP.Addr
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      BuildHTTPHandler(cfg),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return err
		}
		logger.Info("HTTP server stopped")
		return nil
	})

	return g.Wait()
}
