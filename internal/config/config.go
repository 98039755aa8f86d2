package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"

	"github.com/couchcryptid/space-weather-monitor/internal/domain"
)

// Default SWPC product endpoints.
const (
	DefaultKpURL       = "https://services.swpc.noaa.gov/products/noaa-planetary-k-index.json"
	DefaultWindURL     = "https://services.swpc.noaa.gov/products/solar-wind/plasma-1-day.json"
	DefaultXrayURL     = "https://services.swpc.noaa.gov/json/goes/primary/xrays-6-hour.json"
	DefaultForecastURL = "https://services.swpc.noaa.gov/products/noaa-planetary-k-index-forecast.json"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	RefreshInterval time.Duration
	FetchTimeout    time.Duration
	DisplayTimezone string
	ImageryEnabled  bool

	// Feed endpoints.
	KpURL       string
	WindURL     string
	XrayURL     string
	ForecastURL string

	// Optional Kafka render sink.
	KafkaEnabled       bool
	KafkaBrokers       []string
	KafkaSnapshotTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	refreshInterval, err := parsePositiveDuration("REFRESH_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}

	fetchTimeout, err := parsePositiveDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		RefreshInterval: refreshInterval,
		FetchTimeout:    fetchTimeout,
		DisplayTimezone: sharedcfg.EnvOrDefault("DISPLAY_TIMEZONE", domain.TimezoneLocal),
		ImageryEnabled:  parseBool("IMAGERY_ENABLED", true),

		KpURL:       sharedcfg.EnvOrDefault("KP_URL", DefaultKpURL),
		WindURL:     sharedcfg.EnvOrDefault("WIND_URL", DefaultWindURL),
		XrayURL:     sharedcfg.EnvOrDefault("XRAY_URL", DefaultXrayURL),
		ForecastURL: sharedcfg.EnvOrDefault("FORECAST_URL", DefaultForecastURL),

		KafkaEnabled:       parseBool("KAFKA_ENABLED", false),
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSnapshotTopic: sharedcfg.EnvOrDefault("KAFKA_SNAPSHOT_TOPIC", "space-weather-snapshots"),
	}

	if _, err := domain.NewDisplayConfig(cfg.DisplayTimezone); err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TIMEZONE: %w", err)
	}
	for name, u := range map[string]string{
		"KP_URL":       cfg.KpURL,
		"WIND_URL":     cfg.WindURL,
		"XRAY_URL":     cfg.XrayURL,
		"FORECAST_URL": cfg.ForecastURL,
	} {
		if u == "" {
			return nil, fmt.Errorf("%s is required", name)
		}
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaSnapshotTopic == "" {
			return nil, errors.New("KAFKA_SNAPSHOT_TOPIC is required when KAFKA_ENABLED is true")
		}
	}

	return cfg, nil
}

// FeedURLs maps each feed to its configured endpoint.
func (c *Config) FeedURLs() map[domain.Feed]string {
	return map[domain.Feed]string{
		domain.FeedKp:       c.KpURL,
		domain.FeedWind:     c.WindURL,
		domain.FeedXray:     c.XrayURL,
		domain.FeedForecast: c.ForecastURL,
	}
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseBool(key string, def bool) bool {
	if s := os.Getenv(key); s != "" {
		if v, err := strconv.ParseBool(s); err == nil {
			return v
		}
	}
	return def
}
