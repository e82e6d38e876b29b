// @title                       PawCare Auth API
// @version                     1.0
// @description                 Token-based authentication for the PawCare platform.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/pawcare/auth-service/internal/api"
	"github.com/pawcare/auth-service/internal/core/ports"
	"github.com/pawcare/auth-service/internal/core/service"
	"github.com/pawcare/auth-service/internal/infrastructure/config"
	mongodb "github.com/pawcare/auth-service/internal/infrastructure/db/mongo"
	redisdb "github.com/pawcare/auth-service/internal/infrastructure/db/redis"
	"github.com/pawcare/auth-service/internal/infrastructure/queue"
	"github.com/pawcare/auth-service/internal/infrastructure/ratelimit"
	"github.com/pawcare/auth-service/internal/infrastructure/security"
	"github.com/pawcare/auth-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log := logger.Init(logger.Options{Service: "pawcare-auth"})
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "pawcare-auth",
	})

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config) error {
	log := logger.Component("server")

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "pawcare-auth",
	})
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unavailable, using in-memory rate limiter")
		rdb = nil
	} else {
		defer func() { _ = rdb.Close() }()
	}

	// --- Audit pipeline ---
	dispatchCtx, cancelDispatch := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(
		cfg.Audit.Workers,
		service.NewAuditService(mongodb.NewAuditRepository(db), logger.Component("audit")),
		logger.Component("audit"),
	)
	dispatcher.Start(dispatchCtx)
	defer func() {
		cancelDispatch()
		dispatcher.Wait()
	}()

	// --- Core ---
	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTRefreshSecret)
	sessions := service.NewSessionService(mongodb.NewSessionRepository(db), time.Now)
	authService := service.NewAuthService(
		mongodb.NewUserRepository(db),
		sessions,
		security.NewPasswordHasher(cfg.Auth.BcryptCost),
		tokens,
		logger.Component("auth"),
		service.WithAuditRecorder(dispatcher),
	)

	e := api.NewRouter(api.Deps{
		Auth:          authService,
		Verifier:      tokens,
		Limiter:       newLimiter(cfg, rdb),
		Mongo:         db,
		Redis:         rdb,
		Log:           logger.Component("http"),
		Development:   cfg.IsDevelopment(),
		SecureCookies: cfg.Auth.CookieSecure,
		TrustProxy:    cfg.TrustProxy,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newLimiter(cfg *config.Config, rdb *goredis.Client) ports.RateLimiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	if rdb == nil {
		return ratelimit.NewMemoryLimiter(cfg.RateLimit.Requests, cfg.RateLimit.Window)
	}
	return redisdb.NewRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Window)
}
