package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/campus-erp/campus-erp/internal/app"
	"github.com/campus-erp/campus-erp/internal/audit"
	"github.com/campus-erp/campus-erp/internal/auth"
	"github.com/campus-erp/campus-erp/internal/observability"
	"github.com/campus-erp/campus-erp/internal/platform/cache"
	"github.com/campus-erp/campus-erp/internal/platform/db"
	"github.com/campus-erp/campus-erp/internal/ratelimit"
	"github.com/campus-erp/campus-erp/internal/rbac"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis unavailable, falling back to in-memory rate limiting", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
	}

	metrics := observability.NewMetrics()

	var limiter ratelimit.Limiter
	if redisClient != nil {
		limiter = ratelimit.NewRedis(redisClient, logger)
	} else {
		memory := ratelimit.NewMemory(2 * cfg.AuthRateWindow)
		memory.StartSweeper(5 * time.Minute)
		defer memory.Close()
		limiter = memory
	}

	auditor := audit.NewLogger(audit.NewPGSink(dbpool), logger, metrics.AuditFailures())

	hasher := auth.NewPasswordHasher()
	tokens := auth.NewTokenService(cfg.AuthSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userStore := auth.NewPGUserStore(dbpool)

	authService := auth.NewService(userStore, hasher, tokens, auditor, metrics)
	authHandler := auth.NewHandler(logger, authService)

	resolver := auth.NewResolver(tokens, userStore, limiter, auditor, metrics, auth.ResolverConfig{
		RateLimit:       cfg.AuthRateLimit,
		RateLimitWindow: cfg.AuthRateWindow,
	})

	catalog := rbac.NewCatalog()
	engine := rbac.NewEngine(catalog)
	rbacMiddleware := rbac.Middleware{Engine: engine, Logger: logger}
	rbacHandler := rbac.NewHandler(logger, engine, catalog, userStore)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		AuthHandler:    authHandler,
		RBACHandler:    rbacHandler,
		RBACMiddleware: rbacMiddleware,
		Resolver:       resolver,
		Metrics:        metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}
