package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kjstillabower/msn-weather-cache/internal/builder"
	"github.com/kjstillabower/msn-weather-cache/internal/client"
	"github.com/kjstillabower/msn-weather-cache/internal/config"
	"github.com/kjstillabower/msn-weather-cache/internal/observability"
)

func main() {
	os.Exit(run())
}

func run() int {
	runID := observability.NewRunID()
	logger, err := observability.NewLogger(runID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Error("config", zap.Error(err))
		_ = observability.FlushTelemetry(logger, "")
		return 1
	}
	logger.Info("starting cache build", zap.Object("config", cfg))

	weatherClient, err := client.NewWeatherbitClient(cfg.APIKey, cfg.APIURL, cfg.APITimeout, client.TransportOptions{
		Proxies:            cfg.Proxies,
		InsecureSkipVerify: !cfg.Verify.Enabled,
		CAFile:             cfg.Verify.CAFile,
	})
	if err != nil {
		logger.Error("weather client", zap.Error(err))
		_ = observability.FlushTelemetry(logger, cfg.MetricsTextfile)
		return 1
	}
	if !cfg.Verify.Enabled {
		logger.Warn("TLS certificate verification disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = observability.WithRunID(ctx, runID)

	runErr := builder.New(weatherClient, logger).Run(ctx, cfg)

	if err := observability.FlushTelemetry(logger, cfg.MetricsTextfile); err != nil {
		logger.Warn("metrics textfile", zap.Error(err))
	}
	if runErr != nil {
		return 1
	}
	return 0
}
