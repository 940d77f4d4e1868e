package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/agenthands/notify/internal/app"
	"github.com/agenthands/notify/internal/config"
	"github.com/agenthands/notify/internal/platform/logger"
	"github.com/agenthands/notify/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		slog.Error("failed to load configuration", "path", cfgPath, "error", err)
		os.Exit(1)
	}
	cfg.ApplyEnv()

	log := logger.New(logger.FromConfig(cfg.Log))

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close(context.Background())

	srv := server.NewServer(a.Notebook, log)
	if cfg.Transcription.TempDir != "" {
		srv.TempDir = cfg.Transcription.TempDir
	}
	if err := srv.ListenAndServe(ctx, ":"+cfg.Server.Port); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
