// Package config loads service settings from the environment.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/alex-user-go/travelsearch/internal/events"
	"github.com/alex-user-go/travelsearch/internal/providers/bus"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port     string
	LogLevel string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	SearchTimeout   time.Duration
	LocationTimeout time.Duration
	PriceTimeout    time.Duration
	MaxDaysAhead    int

	RateLimitRequests int
	RateLimitWindow   time.Duration
	CollapseSearches  bool

	TrainSuggestURL  string
	TrainFareURL     string
	BusSuggestURL    string
	BusSearchURL     string
	FlightSuggestURL string
	FlightFareURL    string

	UpstreamAPIKey   string
	UpstreamDeviceID string
	BusDeviceID      string

	BusPreferredRegion string
	BusOverrides       []bus.Override

	EventsSink           string
	EventsQueueSize      int
	EventsPublishTimeout time.Duration
	RedisAddr            string
	RedisPassword        string
	RedisDB              int
	EventsStream         string
	EventsStreamMaxLen   int
	KafkaBrokers         []string
	KafkaTopic           string

	overridesErr error
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:     getEnvStr(EnvPort, DefaultPort),
		LogLevel: getEnvStr(EnvLogLevel, DefaultLogLevel),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		SearchTimeout:   getEnvDuration(EnvSearchTimeout, DefaultSearchTimeout),
		LocationTimeout: getEnvDuration(EnvLocationTimeout, DefaultLocationTimeout),
		PriceTimeout:    getEnvDuration(EnvPriceTimeout, DefaultPriceTimeout),
		MaxDaysAhead:    getEnvInt(EnvMaxDaysAhead, DefaultMaxDaysAhead),

		RateLimitRequests: getEnvInt(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),
		CollapseSearches:  getEnvBool(EnvCollapseSearches, DefaultCollapseSearches),

		TrainSuggestURL:  getEnvStr(EnvTrainSuggestURL, DefaultTrainSuggestURL),
		TrainFareURL:     getEnvStr(EnvTrainFareURL, DefaultTrainFareURL),
		BusSuggestURL:    getEnvStr(EnvBusSuggestURL, DefaultBusSuggestURL),
		BusSearchURL:     getEnvStr(EnvBusSearchURL, DefaultBusSearchURL),
		FlightSuggestURL: getEnvStr(EnvFlightSuggestURL, DefaultFlightSuggestURL),
		FlightFareURL:    getEnvStr(EnvFlightFareURL, DefaultFlightFareURL),

		UpstreamAPIKey:   getEnvStr(EnvUpstreamAPIKey, ""),
		UpstreamDeviceID: getEnvStr(EnvUpstreamDeviceID, ""),
		BusDeviceID:      getEnvStr(EnvBusDeviceID, ""),

		BusPreferredRegion: getEnvStr(EnvBusPreferredRegion, DefaultBusPreferredRegion),

		EventsSink:           strings.ToLower(getEnvStr(EnvEventsSink, DefaultEventsSink)),
		EventsQueueSize:      getEnvInt(EnvEventsQueueSize, DefaultEventsQueueSize),
		EventsPublishTimeout: getEnvDuration(EnvEventsPublishTimeout, DefaultEventsPublishTimeout),
		RedisAddr:            getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword:        getEnvStr(EnvRedisPassword, ""),
		RedisDB:              getEnvInt(EnvRedisDB, 0),
		EventsStream:         getEnvStr(EnvEventsStream, DefaultEventsStream),
		EventsStreamMaxLen:   getEnvInt(EnvEventsStreamMaxLen, DefaultEventsStreamMaxLen),
		KafkaBrokers:         getEnvList(EnvKafkaBrokers),
		KafkaTopic:           getEnvStr(EnvKafkaTopic, DefaultKafkaTopic),
	}
	cfg.BusOverrides, cfg.overridesErr = parseOverrides(getEnvStr(EnvBusOverrides, DefaultBusOverrides))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Events returns the analytics sink settings.
func (cfg *Config) Events() events.Config {
	return events.Config{
		Sink:          cfg.EventsSink,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
		Stream:        cfg.EventsStream,
		StreamMaxLen:  int64(cfg.EventsStreamMaxLen),
		KafkaBrokers:  cfg.KafkaBrokers,
		KafkaTopic:    cfg.KafkaTopic,
	}
}

// Validate collects every configuration problem into one error.
func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		errors = append(errors, fmt.Sprintf("LogLevel must be one of debug, info, warn, error, got: %s", cfg.LogLevel))
	}

	durations := []struct {
		name  string
		value time.Duration
	}{
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"SearchTimeout", cfg.SearchTimeout},
		{"LocationTimeout", cfg.LocationTimeout},
		{"PriceTimeout", cfg.PriceTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"EventsPublishTimeout", cfg.EventsPublishTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", d.name, d.value))
		}
	}
	if cfg.WriteTimeout > 0 && cfg.SearchTimeout > cfg.WriteTimeout {
		errors = append(errors, fmt.Sprintf("SearchTimeout (%s) must not exceed WriteTimeout (%s)", cfg.SearchTimeout, cfg.WriteTimeout))
	}

	if cfg.MaxDaysAhead <= 0 {
		errors = append(errors, fmt.Sprintf("MaxDaysAhead must be positive, got: %d", cfg.MaxDaysAhead))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.EventsQueueSize <= 0 {
		errors = append(errors, fmt.Sprintf("EventsQueueSize must be positive, got: %d", cfg.EventsQueueSize))
	}

	urls := []struct {
		name  string
		value string
	}{
		{"TrainSuggestURL", cfg.TrainSuggestURL},
		{"TrainFareURL", cfg.TrainFareURL},
		{"BusSuggestURL", cfg.BusSuggestURL},
		{"BusSearchURL", cfg.BusSearchURL},
		{"FlightSuggestURL", cfg.FlightSuggestURL},
		{"FlightFareURL", cfg.FlightFareURL},
	}
	for _, u := range urls {
		parsed, err := url.Parse(u.value)
		if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
			errors = append(errors, fmt.Sprintf("%s must be an absolute http(s) URL, got: %q", u.name, u.value))
		}
	}

	if cfg.overridesErr != nil {
		errors = append(errors, fmt.Sprintf("BusOverrides must be a JSON list of {query, match, region}: %v", cfg.overridesErr))
	}

	switch cfg.EventsSink {
	case events.SinkLog:
	case events.SinkRedis:
		if cfg.RedisAddr == "" {
			errors = append(errors, "RedisAddr cannot be empty when EventsSink is redis")
		}
		if cfg.EventsStream == "" {
			errors = append(errors, "EventsStream cannot be empty when EventsSink is redis")
		}
	case events.SinkKafka:
		if len(cfg.KafkaBrokers) == 0 {
			errors = append(errors, "KafkaBrokers cannot be empty when EventsSink is kafka")
		}
		if cfg.KafkaTopic == "" {
			errors = append(errors, "KafkaTopic cannot be empty when EventsSink is kafka")
		}
	default:
		errors = append(errors, fmt.Sprintf("EventsSink must be one of log, redis, kafka, got: %s", cfg.EventsSink))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

// LogConfiguration logs the effective settings with secrets redacted.
func (cfg *Config) LogConfiguration(logger *zap.Logger) {
	logger.Info("Configuration loaded successfully",
		zap.String("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.Duration("read_timeout", cfg.ReadTimeout),
		zap.Duration("write_timeout", cfg.WriteTimeout),
		zap.Duration("idle_timeout", cfg.IdleTimeout),
		zap.Duration("shutdown_timeout", cfg.ShutdownTimeout),
		zap.Duration("search_timeout", cfg.SearchTimeout),
		zap.Duration("location_timeout", cfg.LocationTimeout),
		zap.Duration("price_timeout", cfg.PriceTimeout),
		zap.Int("max_days_ahead", cfg.MaxDaysAhead),
		zap.Int("rate_limit_requests", cfg.RateLimitRequests),
		zap.Duration("rate_limit_window", cfg.RateLimitWindow),
		zap.Bool("collapse_searches", cfg.CollapseSearches),
		zap.String("train_suggest_url", cfg.TrainSuggestURL),
		zap.String("train_fare_url", cfg.TrainFareURL),
		zap.String("bus_suggest_url", cfg.BusSuggestURL),
		zap.String("bus_search_url", cfg.BusSearchURL),
		zap.String("flight_suggest_url", cfg.FlightSuggestURL),
		zap.String("flight_fare_url", cfg.FlightFareURL),
		zap.Bool("upstream_api_key_set", cfg.UpstreamAPIKey != ""),
		zap.Bool("upstream_device_id_set", cfg.UpstreamDeviceID != ""),
		zap.Bool("bus_device_id_set", cfg.BusDeviceID != ""),
		zap.String("bus_preferred_region", cfg.BusPreferredRegion),
		zap.Int("bus_overrides", len(cfg.BusOverrides)),
		zap.String("events_sink", cfg.EventsSink),
		zap.Int("events_queue_size", cfg.EventsQueueSize),
		zap.String("redis_addr", cfg.RedisAddr),
		zap.Bool("redis_password_set", cfg.RedisPassword != ""),
		zap.Int("redis_db", cfg.RedisDB),
		zap.String("events_stream", cfg.EventsStream),
		zap.Strings("kafka_brokers", cfg.KafkaBrokers),
		zap.String("kafka_topic", cfg.KafkaTopic),
	)
}

func parseOverrides(raw string) ([]bus.Override, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var overrides []bus.Override
	if err := json.Unmarshal([]byte(raw), &overrides); err != nil {
		return nil, err
	}
	for i, o := range overrides {
		if o.Query == "" || o.Match == "" {
			return nil, fmt.Errorf("entry %d needs both query and match", i)
		}
	}
	return overrides, nil
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
