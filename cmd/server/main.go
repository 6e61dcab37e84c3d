package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/api"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/bridge"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/config"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/handlers"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/hub"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/provider"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/store"
	"github.com/Baggiioo6/whatsapp-multi-inbox/internal/webhook"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Initialize the message/account store: PostgreSQL when configured,
	// embedded SQLite otherwise
	var dataStore store.DataStore
	if cfg.DatabaseURL != "" {
		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		dataStore = pgStore
		logger.Info().Msg("connected to PostgreSQL")
	} else {
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		dataStore = sqliteStore
		logger.Info().Str("path", cfg.SQLitePath).Msg("opened SQLite database")
	}
	defer dataStore.Close()

	// Initialize Redis (optional; enables API rate limiting)
	var redisStore *store.RedisStore
	if cfg.RedisURL != "" {
		var err error
		redisStore, err = store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer redisStore.Close()
		logger.Info().Msg("connected to Redis")
	}

	// Realtime broadcaster
	notifier := hub.New(logger)
	defer notifier.Close()

	// Provider registry
	senders := provider.NewRegistry()
	senders.Register(provider.NewMetaSender(logger, cfg.GraphAPIURL, nil))

	// Core components
	ingester := webhook.NewIngester(dataStore, notifier, cfg.VerifyToken, logger)
	bridgeRouter := bridge.NewRouter(dataStore, senders, logger)

	// Create router
	h := handlers.NewHandler(dataStore, redisStore, senders, bridgeRouter, ingester, notifier, logger)
	router := api.NewRouter(logger, h, redisStore)

	// Create server. No WriteTimeout: /ws connections are long-lived,
	// and outbound provider calls have no deadline of their own.
	srv := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting multi-inbox server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
