package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/sprite-forecast-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/sprite-forecast-service/internal/adapter/kafka"
	"github.com/couchcryptid/sprite-forecast-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/sprite-forecast-service/internal/config"
	"github.com/couchcryptid/sprite-forecast-service/internal/domain"
	"github.com/couchcryptid/sprite-forecast-service/internal/observability"
	"github.com/couchcryptid/sprite-forecast-service/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	weather := openmeteo.NewSource(openmeteo.SourceConfig{
		BaseURL:   cfg.OpenMeteoBaseURL,
		Timeout:   cfg.OpenMeteoTimeout,
		CacheSize: cfg.OpenMeteoCacheSize,
		RateLimit: cfg.OpenMeteoRateLimit,
		Burst:     cfg.OpenMeteoBurst,
	}, clockwork.NewRealClock(), metrics, logger)
	logger.Info("open-meteo source configured",
		"base_url", cfg.OpenMeteoBaseURL,
		"cache_size", cfg.OpenMeteoCacheSize,
		"rate_limit", cfg.OpenMeteoRateLimit,
	)

	forecaster := domain.NewForecaster(weather, cfg.MessageLanguage, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		ready  sharedobs.ReadinessChecker = httpadapter.AlwaysReady{}
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)
		transformer := pipeline.NewTransformer(forecaster, metrics, logger)
		p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)
		ready = p

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
		logger.Info("kafka pipeline enabled", "source", cfg.KafkaSourceTopic, "sink", cfg.KafkaSinkTopic)
	} else {
		logger.Info("kafka pipeline disabled")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, httpadapter.API{
		Forecaster: forecaster,
		Weather:    weather,
		Language:   cfg.MessageLanguage,
		Metrics:    metrics,
	}, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if reader != nil {
		if err := reader.Close(); err != nil {
			logger.Error("kafka reader close error", "error", err)
		}
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
