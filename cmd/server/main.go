package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bcnelson/meraki-device-swap/internal/api"
	"github.com/bcnelson/meraki-device-swap/internal/config"
	"github.com/bcnelson/meraki-device-swap/internal/locator"
	"github.com/bcnelson/meraki-device-swap/internal/recorder"
	"github.com/bcnelson/meraki-device-swap/internal/registry"
	"github.com/bcnelson/meraki-device-swap/internal/service"
	"github.com/bcnelson/meraki-device-swap/internal/storage/sql"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
		logger = logger.Level(level)
	}

	// Create data directory if needed (for SQLite)
	if cfg.Database.Driver == "sqlite3" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.DSN), 0755); err != nil {
			logger.Fatal().Err(err).Msg("failed to create data directory")
		}
	}

	// Initialize operation history storage
	store, err := sql.New(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer store.Close()

	// Build the organization registry from the credential mapping
	factory := registry.NewClientFactory(cfg.Meraki.BaseURL, cfg.Meraki.Timeout, logger)
	reg, err := registry.Load(cfg.Meraki.OrgKeys, factory)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load organization registry")
	}
	logger.Info().Strs("organizations", reg.OrganizationIDs()).Msg("organization registry loaded")

	// Operation recorder: history table, plus the audit file if enabled
	sinks := recorder.Multi{recorder.NewStoreRecorder(store)}
	if cfg.Audit.Enabled {
		fileRecorder, err := recorder.NewFileRecorder(cfg.Audit.Path)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open audit log")
		}
		defer fileRecorder.Close()
		sinks = append(sinks, fileRecorder)
		logger.Info().Str("path", cfg.Audit.Path).Msg("audit logging enabled")
	}

	// Core services
	loc := locator.New(reg, logger)
	validator := service.NewValidator(loc, reg, logger)
	replacer := service.NewReplacer(reg, sinks, logger)

	// Create router
	router := api.NewRouter(reg, loc, validator, replacer, store, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	logger.Info().Str("addr", cfg.Server.Addr()).Msg("starting device swap service")

	// Start server in goroutine
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
