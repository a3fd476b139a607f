package bootstrap

import (
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gatehouse/gatehouse/config"
	"github.com/gatehouse/gatehouse/internal/adapters/devidp"
	"github.com/gatehouse/gatehouse/internal/adapters/hostedidp"
	"github.com/gatehouse/gatehouse/internal/adapters/pgaccounts"
	redisadapter "github.com/gatehouse/gatehouse/internal/adapters/redis"
	"github.com/gatehouse/gatehouse/internal/ports"
)

// IdentityDeps groups dependencies for BuildIdentityFactory.
type IdentityDeps struct {
	Config      *config.AppConfig
	Pool        *pgxpool.Pool
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildIdentityFactory constructs the identity client factory for the
// configured auth mode.
//
// Misconfiguration returns a nil factory instead of an error: the server
// still starts, auth endpoints answer 503, and the session guard treats
// every request as unauthenticated.
//
//nolint:ireturn // callers depend on the port, not a concrete factory.
func BuildIdentityFactory(deps IdentityDeps) ports.IdentityClientFactory {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if deps.Config == nil {
		logger.Warn("identity provider unavailable, running in degraded mode",
			"error", "missing configuration")
		return nil
	}

	switch deps.Config.Auth.Mode {
	case config.AuthModeDev:
		factory, err := buildDevFactory(deps, logger)
		if err != nil {
			logger.Warn("identity provider unavailable, running in degraded mode",
				"mode", "dev", "error", err)
			return nil
		}
		logger.Info("identity provider configured", "mode", "dev")
		return factory
	case config.AuthModeHosted:
		factory, err := hostedidp.NewFactory(hostedidp.Config{
			BaseURL: deps.Config.Auth.Hosted.BaseURL,
			APIKey:  deps.Config.Auth.Hosted.APIKey,
			Timeout: deps.Config.Auth.Hosted.Timeout,
		}, logger)
		if err != nil {
			logger.Warn("identity provider unavailable, running in degraded mode",
				"mode", "hosted", "error", err)
			return nil
		}
		logger.Info("identity provider configured",
			"mode", "hosted", "base_url", deps.Config.Auth.Hosted.BaseURL)
		return factory
	default:
		logger.Warn("identity provider unavailable, running in degraded mode",
			"mode", string(deps.Config.Auth.Mode), "error", "unknown auth mode")
		return nil
	}
}

func buildDevFactory(deps IdentityDeps, logger *slog.Logger) (*devidp.Factory, error) {
	var accounts ports.AccountStore
	if deps.Pool != nil {
		accounts = pgaccounts.NewStore(deps.Pool)
	}
	var tokens ports.TokenStore
	if deps.RedisClient != nil {
		tokens = redisadapter.NewTokenStore(deps.RedisClient)
	}

	return devidp.NewFactory(devidp.FactoryOptions{
		Config: devidp.Config{
			JWTSecret:       deps.Config.Auth.Dev.JWTSecret,
			AccessTokenTTL:  deps.Config.Auth.Dev.AccessTokenTTL,
			RefreshTokenTTL: deps.Config.Auth.Dev.RefreshTokenTTL,
			ResetTokenTTL:   deps.Config.Auth.Dev.ResetTokenTTL,
		},
		Accounts: accounts,
		Tokens:   tokens,
		Logger:   logger,
	})
}
