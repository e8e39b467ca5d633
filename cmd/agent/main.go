// Command agent runs on a financed device and enforces the lock state held
// by the paylock backend.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/fkhayef/paylock/internal/agent"
	"github.com/fkhayef/paylock/internal/agent/config"
	"github.com/fkhayef/paylock/internal/agent/kiosk"
	"github.com/fkhayef/paylock/internal/agent/tamper"
	"github.com/fkhayef/paylock/internal/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.NewJSON(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := agent.New(cfg, logger,
		kiosk.NewHeadless(cfg.DataDir, logger.With("component", "surface")),
		tamper.FileSensor{Path: cfg.TamperSensorPath},
	)
	if err != nil {
		logger.Error(ctx, "failed to start agent", "error", err)
		os.Exit(1)
	}

	logger.Info(ctx, "agent starting", "server", cfg.ServerURL, "dataDir", cfg.DataDir, "pollInterval", cfg.PollInterval)
	if err := a.Run(ctx); err != nil {
		logger.Error(ctx, "agent stopped", "error", err)
		os.Exit(1)
	}
}
