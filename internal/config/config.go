package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"
	_ "time/tzdata"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration
	PipelineEnabled    bool

	// Open-Meteo upstreams.
	OpenMeteoMarineURL  string
	OpenMeteoWeatherURL string
	OpenMeteoTimeout    time.Duration
	OpenMeteoTimezone   string
	SourceCacheSize     int
	SourceCacheTTL      time.Duration

	// Optional sinks. Empty values disable them.
	MQTTBroker      string
	MQTTClientID    string
	MQTTTopicPrefix string
	SnapshotDB      string

	RankingConcurrency int
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	upstreamTimeout, err := parseDuration("OPENMETEO_TIMEOUT", "14s")
	if err != nil {
		return nil, err
	}

	cacheTTL, err := parseDuration("SOURCE_CACHE_TTL", "10m")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("SOURCE_CACHE_SIZE", 256)
	if err != nil {
		return nil, err
	}

	rankingConcurrency, err := parsePositiveInt("RANKING_CONCURRENCY", 4)
	if err != nil {
		return nil, err
	}

	pipelineEnabled, err := strconv.ParseBool(sharedcfg.EnvOrDefault("PIPELINE_ENABLED", "true"))
	if err != nil {
		return nil, errors.New("invalid PIPELINE_ENABLED")
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "raw-surf-readings"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "surf-assessments"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "surf-conditions"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		PipelineEnabled:    pipelineEnabled,

		OpenMeteoMarineURL:  sharedcfg.EnvOrDefault("OPENMETEO_MARINE_URL", "https://marine-api.open-meteo.com/v1/marine"),
		OpenMeteoWeatherURL: sharedcfg.EnvOrDefault("OPENMETEO_WEATHER_URL", "https://api.open-meteo.com/v1/forecast"),
		OpenMeteoTimeout:    upstreamTimeout,
		OpenMeteoTimezone:   sharedcfg.EnvOrDefault("OPENMETEO_TIMEZONE", "Europe/Paris"),
		SourceCacheSize:     cacheSize,
		SourceCacheTTL:      cacheTTL,

		MQTTBroker:      sharedcfg.EnvOrDefault("MQTT_BROKER", ""),
		MQTTClientID:    sharedcfg.EnvOrDefault("MQTT_CLIENT_ID", "surf-conditions"),
		MQTTTopicPrefix: sharedcfg.EnvOrDefault("MQTT_TOPIC_PREFIX", "surf/conditions"),
		SnapshotDB:      sharedcfg.EnvOrDefault("SNAPSHOT_DB", ""),

		RankingConcurrency: rankingConcurrency,
	}

	if cfg.PipelineEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required")
		}
		if cfg.KafkaSourceTopic == "" {
			return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_SINK_TOPIC is required")
		}
	}
	if _, err := time.LoadLocation(cfg.OpenMeteoTimezone); err != nil {
		return nil, fmt.Errorf("invalid OPENMETEO_TIMEZONE: %w", err)
	}

	return cfg, nil
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, strconv.Itoa(def)))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
