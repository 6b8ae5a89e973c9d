// @title          Studio Auth API
// @version        1.0
// @description    Authentication and user management for the studio backend.
// @BasePath       /
//
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

	_ "github.com/dannykhan02/Lenny-media-backend/docs"
	"github.com/dannykhan02/Lenny-media-backend/internal/api"
	"github.com/dannykhan02/Lenny-media-backend/internal/api/handler"
	"github.com/dannykhan02/Lenny-media-backend/internal/api/session"
	"github.com/dannykhan02/Lenny-media-backend/internal/core/service"
	"github.com/dannykhan02/Lenny-media-backend/internal/infrastructure/config"
	mongostore "github.com/dannykhan02/Lenny-media-backend/internal/infrastructure/db/mongo"
	redisstore "github.com/dannykhan02/Lenny-media-backend/internal/infrastructure/db/redis"
	"github.com/dannykhan02/Lenny-media-backend/internal/infrastructure/queue"
	"github.com/dannykhan02/Lenny-media-backend/internal/infrastructure/security"
	"github.com/dannykhan02/Lenny-media-backend/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		l := logger.Get()
		l.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: "studio-api"})
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "studio-api",
		Env:     cfg.Env,
	})

	// --- Storage ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  cfg.Mongo.Timeout,
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

	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisstore.Connect(ctx, redisstore.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	// --- Security ---
	tokens, err := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.JWTTTL)
	if err != nil {
		return err
	}
	sameSite, err := session.ParseSameSite(cfg.Cookie.SameSite)
	if err != nil {
		return err
	}
	transport := session.New(cfg.Cookie.Name, cfg.Cookie.Path, cfg.Cookie.Domain, cfg.Cookie.Secure, sameSite, cfg.Auth.JWTTTL)
	revocations := redisstore.NewRevocationList(rdb)

	// --- Audit trail ---
	auditRepo := mongostore.NewAuditRepository(db)
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, auditRepo, logger.Component("audit"))
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	// --- Service + HTTP ---
	authService := service.NewAuthService(service.AuthDeps{
		Users:       mongostore.NewUserRepository(db),
		Hasher:      security.NewBcryptHasher(cfg.Auth.BcryptCost),
		Tokens:      tokens,
		Revocations: revocations,
		Throttle:    redisstore.NewLoginThrottle(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow),
		AuditSink:   dispatcher,
		Audit:       auditRepo,
	}, logger.Component("auth"))

	e := api.NewRouter(api.Deps{
		AuthService: authService,
		Tokens:      tokens,
		Revocations: revocations,
		Transport:   transport,
		HealthChecks: map[string]handler.Check{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
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

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped")
	return nil
}
