package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"userhub/internal/api"
	"userhub/internal/api/view"
	"userhub/internal/app/service"
	"userhub/internal/common/security"
	"userhub/internal/domain/repository"
	"userhub/internal/platform/config"
	"userhub/internal/platform/database"
	"userhub/internal/platform/logging"
	"userhub/internal/platform/metrics"
	"userhub/internal/platform/session"
)

func main() {
	// 1. Configuration and logging
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger := logging.Setup("userhub", cfg.LogFormat, nil)
	slog.SetDefault(logger)

	ctx := context.Background()

	// 2. Database
	db, err := database.Connect(ctx, cfg.DBConnStr)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()
	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			logger.Error("run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}
	logger.Info("database ready")

	// 3. Session store
	var store session.Store
	switch cfg.SessionBackend {
	case config.SessionBackendRedis:
		redisStore, err := session.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("connect redis", slog.Any("error", err))
			os.Exit(1)
		}
		defer redisStore.Close()
		store = redisStore
	case config.SessionBackendMemory:
		store = session.NewMemoryStore()
	}
	logger.Info("session store ready", slog.String("backend", cfg.SessionBackend))

	// 4. Services
	m := metrics.New()
	hasher := security.NewPasswordHasher(logger)
	userRepo := repository.NewPgUserRepository(db)
	sessions := service.NewSessionManager(store, cfg.SessionTTL)
	authService := service.NewAuthService(userRepo, sessions, hasher, logger, m)
	authorizer := service.NewAuthorizer(sessions, userRepo)
	adminService := service.NewAdminService(authorizer, userRepo, m)

	// 5. Bootstrap admin, only when configured
	if err := authService.SeedAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		logger.Error("seed bootstrap admin", slog.Any("error", err))
		os.Exit(1)
	}

	// 6. HTTP server
	renderer, err := view.NewRenderer(logger)
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	router := api.NewRouter(api.RouterDeps{
		Auth:       authService,
		Admin:      adminService,
		Authorizer: authorizer,
		Renderer:   renderer,
		Metrics:    m,
		Logger:     logger,
		SessionTTL: cfg.SessionTTL,
	})

	server := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 7. Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server starting", slog.String("port", cfg.AppPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("listen", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-stop
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
