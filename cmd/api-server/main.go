package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"georush/internal/config"
	"georush/internal/logger"
	"georush/internal/microservices/http-api/router"
)

func main() {
	// Load config (.env + environment, defaults otherwise)
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	// Setup structured logging
	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
	slog.SetDefault(appLogger)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ws := router.NewRealtime(cfg, appLogger)
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(cfg, appLogger, ws),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	fmt.Printf("🚀 GeoRush server running on port %d\n", cfg.Port)
	appLogger.Info("server_started",
		"addr", cfg.Addr(),
		"port", cfg.Port,
		"client_url", cfg.ClientURL,
		"metrics_enabled", cfg.MetricsEnabled,
	)

	select {
	case sig := <-sigChan:
		appLogger.Info("received_shutdown_signal", "signal", sig.String())
	case err := <-errChan:
		appLogger.Error("server_error", "error", err.Error())
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("http_shutdown_failed", "error", err.Error())
	}
	if err := ws.Stop(ctx); err != nil {
		appLogger.Error("realtime_shutdown_failed", "error", err.Error())
	}
	appLogger.Info("server_stopped_gracefully")
}
