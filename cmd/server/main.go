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

	"github.com/anonto42/userposts/internal/metrics"
	"github.com/anonto42/userposts/internal/router"
	"github.com/anonto42/userposts/pkg/config"
	"github.com/anonto42/userposts/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg := config.Load()
	logger := config.NewLogger(cfg)

	if err := run(cfg, logger); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.OTLPEndpoint, cfg.ServiceName, cfg.Env)
	if err != nil {
		return err
	}
	defer func() {
		c, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := shutdownTracing(c); err != nil {
			logger.Warn("tracer shutdown", slog.String("error", err.Error()))
		}
	}()

	// Initialize database connection
	db, err := config.InitDB(cfg, logger)
	if err != nil {
		return err
	}
	defer db.CloseDB() // Ensure the pool is closed when run returns

	var m *metrics.Metrics
	if cfg.MetricsOn {
		m = metrics.New()
	}

	e, err := router.New(logger, m)
	if err != nil {
		return err
	}

	// Setup global middleware
	config.SetupMiddleware(e, logger)

	// Setup routes and dependencies
	if err := router.SetupRoutes(e, router.Deps{
		DB:          db.Gorm,
		Health:      db,
		Metrics:     m,
		Logger:      logger,
		ServiceName: cfg.ServiceName,
	}); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           telemetry.WrapHandler(e, "http.server"),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			slog.String("addr", srv.Addr),
			slog.String("env", cfg.Env),
			slog.String("db_driver", cfg.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		c, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(c); err != nil {
			return err
		}
		logger.Info("server stopped gracefully")
	}
	return nil
}
