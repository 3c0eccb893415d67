package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"skilltree/infrastructure/config"
	"skilltree/infrastructure/di"
	"skilltree/interfaces/http/rest"
	"skilltree/pkg/observability"
)

func main() {
	// Initialize context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, cleanup, err := di.InitializeContainer(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	logger := container.Logger

	if cfg.EnableTracing {
		shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
			ServiceName: "skilltree",
			Environment: cfg.Environment,
			Endpoint:    cfg.OTLPEndpoint,
		})
		if err != nil {
			logger.Warn("Tracing disabled", zap.Error(err))
		} else {
			defer func() {
				if err := shutdownTracing(context.Background()); err != nil {
					logger.Warn("Failed to flush traces", zap.Error(err))
				}
			}()
		}
	}

	if cfg.IsDevelopment() && cfg.ConfigFile != "" {
		watcher, err := config.NewWatcher(cfg, ".env", logger)
		if err != nil {
			logger.Warn("Configuration hot reloading unavailable", zap.Error(err))
		} else {
			watcher.OnChange(func(next *config.Config) {
				if lvl, err := zapcore.ParseLevel(next.LogLevel); err == nil {
					container.LogLevel.SetLevel(lvl)
				}
			})
			defer watcher.Stop()
		}
	}

	// Create router
	router := rest.NewRouter(
		container.RelayService,
		container.SessionService,
		logger,
		rest.Options{
			AllowedOrigin: cfg.AllowedOrigin,
			Debug:         cfg.IsDevelopment(),
			Tracing:       cfg.EnableTracing,
			Metrics:       container.Metrics,
			Ready: func() error {
				if container.UpstreamClient.State() == gobreaker.StateOpen {
					return fmt.Errorf("upstream circuit breaker is open")
				}
				return nil
			},
		},
	)

	// Create HTTP server; an add may wait one upstream timeout in its
	// session queue and then spend another on its own call
	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2*cfg.UpstreamTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("model", cfg.GroqModel),
		)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	// Clean up resources
	if err := logger.Sync(); err != nil {
		log.Printf("Failed to sync logger: %v", err)
	}

	log.Println("Server stopped")
}
