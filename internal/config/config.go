package config

import (
	"errors"
	"os"
	"strings"
)

// Config holds all run settings, populated from environment variables.
type Config struct {
	ShapefilePath  string
	AttributesPath string
	RegionField    string
	OutputDir      string
	PreviewEnabled bool
	LogLevel       string
	LogFormat      string
	MetricsPath    string

	// Kafka summary sink configuration.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		ShapefilePath:  os.Getenv("SHAPEFILE_PATH"),
		AttributesPath: os.Getenv("ATTRIBUTES_PATH"),
		RegionField:    envOrDefault("REGION_FIELD", "NAME"),
		OutputDir:      envOrDefault("OUTPUT_DIR", "."),
		PreviewEnabled: os.Getenv("PREVIEW_ENABLED") == "true",
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		LogFormat:      envOrDefault("LOG_FORMAT", "json"),
		MetricsPath:    os.Getenv("METRICS_PATH"),

		KafkaEnabled:   kafkaEnabled,
		KafkaBrokers:   parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "award-map-summaries"),
	}

	if cfg.ShapefilePath == "" {
		return nil, errors.New("SHAPEFILE_PATH is required")
	}
	if cfg.AttributesPath == "" {
		return nil, errors.New("ATTRIBUTES_PATH is required")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
		}
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parseBrokers splits a comma-separated broker list, dropping empty entries.
func parseBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
