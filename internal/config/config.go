package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// MessageLanguage is the catalog used when a request does not choose one.
	MessageLanguage string

	// Kafka request/prediction pipeline.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSourceTopic   string
	KafkaSinkTopic     string
	KafkaGroupID       string
	BatchSize          int
	BatchFlushInterval time.Duration

	// Open-Meteo weather provider.
	OpenMeteoBaseURL   string
	OpenMeteoTimeout   time.Duration
	OpenMeteoCacheSize int
	OpenMeteoRateLimit float64 // requests per second, 0 disables limiting
	OpenMeteoBurst     int
}

// Load reads configuration from environment variables, applying defaults where unset.
// A .env file in the working directory is loaded first when present; variables
// already set in the environment take precedence over it.
func Load() (*Config, error) {
	_ = godotenv.Load()

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

	openMeteoTimeout, err := parsePositiveDuration("OPENMETEO_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	rateLimit, err := parseNonNegativeFloat("OPENMETEO_RATE_LIMIT", "5")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("OPENMETEO_CACHE_SIZE", "256")
	if err != nil {
		return nil, err
	}

	burst, err := parsePositiveInt("OPENMETEO_BURST", "5")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		MessageLanguage: strings.ToLower(sharedcfg.EnvOrDefault("MESSAGE_LANGUAGE", "en")),

		KafkaEnabled:       os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "sprite-prediction-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "sprite-predictions"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "sprite-forecast"),
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,

		OpenMeteoBaseURL:   strings.TrimRight(sharedcfg.EnvOrDefault("OPENMETEO_BASE_URL", "https://api.open-meteo.com"), "/"),
		OpenMeteoTimeout:   openMeteoTimeout,
		OpenMeteoCacheSize: cacheSize,
		OpenMeteoRateLimit: rateLimit,
		OpenMeteoBurst:     burst,
	}

	if cfg.MessageLanguage != "en" && cfg.MessageLanguage != "ja" {
		return nil, fmt.Errorf("invalid MESSAGE_LANGUAGE %q: want en or ja", cfg.MessageLanguage)
	}
	if cfg.OpenMeteoBaseURL == "" {
		return nil, errors.New("OPENMETEO_BASE_URL is required")
	}
	if cfg.KafkaEnabled {
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

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseNonNegativeFloat(key, def string) (float64, error) {
	f, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil || f < 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return f, nil
}

func parsePositiveInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return n, nil
}
