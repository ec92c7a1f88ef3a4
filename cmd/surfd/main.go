package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	httpadapter "github.com/couchcryptid/surf-conditions-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/surf-conditions-service/internal/adapter/kafka"
	mqttadapter "github.com/couchcryptid/surf-conditions-service/internal/adapter/mqtt"
	"github.com/couchcryptid/surf-conditions-service/internal/adapter/openmeteo"
	"github.com/couchcryptid/surf-conditions-service/internal/adapter/sqlite"
	"github.com/couchcryptid/surf-conditions-service/internal/config"
	"github.com/couchcryptid/surf-conditions-service/internal/observability"
	"github.com/couchcryptid/surf-conditions-service/internal/pipeline"
	"github.com/google/uuid"
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

	client := openmeteo.NewClient(openmeteo.Options{
		MarineURL:  cfg.OpenMeteoMarineURL,
		WeatherURL: cfg.OpenMeteoWeatherURL,
		Timezone:   cfg.OpenMeteoTimezone,
		Timeout:    cfg.OpenMeteoTimeout,
	}, metrics, logger)
	source := openmeteo.NewCachedSource(client, cfg.SourceCacheSize, cfg.SourceCacheTTL, clockwork.NewRealClock(), metrics)
	logger.Info("open-meteo source configured", "cache_size", cfg.SourceCacheSize, "cache_ttl", cfg.SourceCacheTTL)

	api := httpadapter.APIConfig{
		Source:             source,
		Metrics:            metrics,
		RankingConcurrency: cfg.RankingConcurrency,
	}

	// Snapshot store (optional, SNAPSHOT_DB).
	var store *sqlite.Store
	if cfg.SnapshotDB != "" {
		store, err = sqlite.Open(cfg.SnapshotDB, logger)
		if err != nil {
			logger.Error("failed to open snapshot store", "error", err, "path", cfg.SnapshotDB)
			os.Exit(1)
		}
		api.Store = store
		logger.Info("snapshot store enabled", "path", cfg.SnapshotDB)
	} else {
		logger.Info("snapshot store disabled")
	}

	// MQTT publisher (optional, MQTT_BROKER).
	var publisher mqttadapter.Publisher
	if cfg.MQTTBroker != "" {
		clientID := cfg.MQTTClientID + "-" + uuid.NewString()[:8]
		publisher, err = mqttadapter.NewRealPublisher(cfg.MQTTBroker, clientID, cfg.MQTTTopicPrefix, logger)
		if err != nil {
			logger.Error("failed to connect to mqtt broker", "error", err, "broker", cfg.MQTTBroker)
			os.Exit(1)
		}
		logger.Info("mqtt publishing enabled", "broker", cfg.MQTTBroker, "client_id", clientID, "prefix", cfg.MQTTTopicPrefix)
	} else {
		logger.Info("mqtt publishing disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		ready  sharedobs.ReadinessChecker = httpadapter.AlwaysReady{}
		reader *kafkaadapter.Reader
		writer *kafkaadapter.Writer
	)

	if cfg.PipelineEnabled {
		reader = kafkaadapter.NewReader(cfg, logger)
		writer = kafkaadapter.NewWriter(cfg, logger)

		loader := pipeline.NewMultiLoader(writer, logger)
		if publisher != nil {
			loader = loader.With("mqtt", mqttadapter.NewSink(publisher, cfg.MQTTTopicPrefix, logger))
		}
		if store != nil {
			loader = loader.With("sqlite", store)
		}

		p := pipeline.New(reader, pipeline.NewTransformer(logger, metrics), loader, logger, metrics, cfg.BatchSize)
		ready = p

		go func() {
			if err := p.Run(ctx); err != nil {
				logger.Error("pipeline error", "error", err)
			}
		}()
	} else {
		logger.Info("pipeline disabled, serving API only")
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, ready, api, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
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
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("mqtt close error", "error", err)
		}
	}
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Error("snapshot store close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
