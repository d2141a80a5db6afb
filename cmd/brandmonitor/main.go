package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"BrandMonitor/internal/app"
	"BrandMonitor/internal/config"
	"BrandMonitor/internal/logging"
)

func main() {
	scheduled := flag.Bool("scheduled", false, "keep running and scan on the configured cadence")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if *scheduled {
		err = application.RunScheduled(ctx)
	} else {
		err = application.Run(ctx)
	}
	if err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
