package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"github.com/couchcryptid/space-weather-monitor/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/space-weather-monitor/internal/adapter/kafka"
	"github.com/couchcryptid/space-weather-monitor/internal/adapter/swpc"
	"github.com/couchcryptid/space-weather-monitor/internal/config"
	"github.com/couchcryptid/space-weather-monitor/internal/domain"
	"github.com/couchcryptid/space-weather-monitor/internal/observability"
	"github.com/couchcryptid/space-weather-monitor/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	display, err := domain.NewDisplayConfig(cfg.DisplayTimezone)
	if err != nil {
		logger.Error("invalid display timezone", "error", err)
		os.Exit(1)
	}
	monitor, err := pipeline.NewMonitor(display, cfg.ImageryEnabled)
	if err != nil {
		logger.Error("failed to create monitor", "error", err)
		os.Exit(1)
	}

	client := swpc.NewClient(cfg.FeedURLs(), cfg.FetchTimeout, logger)
	hub := httpadapter.NewHub(logger)
	sinks := []pipeline.Sink{hub}

	// Kafka sink is feature-flagged via KAFKA_ENABLED.
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, writer)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	} else {
		logger.Info("kafka sink disabled")
	}

	p := pipeline.New(client, monitor, logger, metrics, cfg.RefreshInterval, sinks...)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, hub, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start refresh scheduler.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("scheduler error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
