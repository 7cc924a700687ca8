package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/shadowsprint/internal/api"
	"github.com/mcoot/shadowsprint/internal/config"
	"github.com/mcoot/shadowsprint/internal/factory"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Create application factory
	app, err := factory.New(factory.FromServer(cfg, logger))
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close store", slog.String("error", err.Error()))
		}
	}()

	router := api.NewRouter(api.RouterConfig{
		Logger:                logger,
		SettingsService:       app.SettingsService,
		ProgressService:       app.ProgressService,
		GhostService:          app.GhostService,
		ClassificationService: app.ClassificationService,
		Store:                 app.Store,
		CORSAllowedOrigins:    cfg.CORSAllowedOrigins,
	})

	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port
	server := api.NewServer(router, serverConfig, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting server",
		slog.String("storage", cfg.StorageType),
		slog.Bool("store_connected", app.Store.Connected()),
	)

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		stop()
		_ = app.Close()
		os.Exit(1)
	}
}
