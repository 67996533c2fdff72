package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvSearchTimeout   = "SEARCH_TIMEOUT"
	EnvLocationTimeout = "LOCATION_TIMEOUT"
	EnvPriceTimeout    = "PRICE_TIMEOUT"
	EnvMaxDaysAhead    = "MAX_DAYS_AHEAD"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"
	EnvCollapseSearches  = "COLLAPSE_SEARCHES"

	EnvTrainSuggestURL  = "TRAIN_SUGGEST_URL"
	EnvTrainFareURL     = "TRAIN_FARE_URL"
	EnvBusSuggestURL    = "BUS_SUGGEST_URL"
	EnvBusSearchURL     = "BUS_SEARCH_URL"
	EnvFlightSuggestURL = "FLIGHT_SUGGEST_URL"
	EnvFlightFareURL    = "FLIGHT_FARE_URL"

	EnvUpstreamAPIKey   = "UPSTREAM_API_KEY"
	EnvUpstreamDeviceID = "UPSTREAM_DEVICE_ID"
	EnvBusDeviceID      = "BUS_DEVICE_ID"

	EnvBusPreferredRegion = "BUS_PREFERRED_REGION"
	EnvBusOverrides       = "BUS_OVERRIDES"

	EnvEventsSink           = "EVENTS_SINK"
	EnvEventsQueueSize      = "EVENTS_QUEUE_SIZE"
	EnvEventsPublishTimeout = "EVENTS_PUBLISH_TIMEOUT"
	EnvRedisAddr            = "REDIS_ADDR"
	EnvRedisPassword        = "REDIS_PASSWORD"
	EnvRedisDB              = "REDIS_DB"
	EnvEventsStream         = "EVENTS_STREAM"
	EnvEventsStreamMaxLen   = "EVENTS_STREAM_MAXLEN"
	EnvKafkaBrokers         = "KAFKA_BROKERS"
	EnvKafkaTopic           = "KAFKA_TOPIC"
)
