package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gatehouse/gatehouse/config"
	"github.com/gatehouse/gatehouse/internal/bootstrap"
	"github.com/gatehouse/gatehouse/internal/ports"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logStartupInfo(ctx, logger, &cfg)

	factory, cleanup := buildIdentity(ctx, &cfg, logger)
	defer cleanup()

	return bootstrap.RunHTTPServer(ctx, &bootstrap.HTTPServerConfig{
		Config:  &cfg,
		Factory: factory,
		Logger:  logger,
	})
}

// buildIdentity wires the identity provider for the configured mode. Dev mode
// needs Postgres and Redis; if either is unreachable the server still starts
// with a nil factory and the auth surface degrades.
//
//nolint:ireturn // callers depend on the port, not a concrete factory.
func buildIdentity(
	ctx context.Context,
	cfg *config.AppConfig,
	logger *slog.Logger,
) (factory ports.IdentityClientFactory, cleanup func()) {
	deps := bootstrap.IdentityDeps{Config: cfg, Logger: logger}
	cleanup = func() {}

	if cfg.Auth.Mode == config.AuthModeDev {
		dbCfg := bootstrap.DatabaseConfig{
			DBConfig:    cfg.Postgres,
			RedisConfig: cfg.Redis,
			Logger:      logger,
		}

		pool, dbErr := bootstrap.ConnectDB(ctx, dbCfg)
		if dbErr != nil {
			logger.WarnContext(ctx, "database unavailable", "error", dbErr)
		} else if migErr := bootstrap.RunMigrations(ctx, pool, logger); migErr != nil {
			logger.WarnContext(ctx, "database migrations failed", "error", migErr)
			pool.Close()
			pool = nil
		}

		redisClient, redisErr := bootstrap.ConnectRedis(ctx, dbCfg)
		if redisErr != nil {
			logger.WarnContext(ctx, "redis unavailable", "error", redisErr)
		}

		deps.Pool = pool
		deps.RedisClient = redisClient
		cleanup = func() {
			if redisClient != nil {
				if cerr := redisClient.Close(); cerr != nil {
					logger.Error("close redis failed", "error", cerr)
				}
			}
			if pool != nil {
				pool.Close()
			}
		}
	}

	return bootstrap.BuildIdentityFactory(deps), cleanup
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting gatehouse service",
		"auth_mode", string(cfg.Auth.Mode),
		"addr", cfg.HTTP.Addr,
		"dev", cfg.IsDev)
}
