package config

import "time"

const (
	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 40 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	DefaultSearchTimeout   = 30 * time.Second
	DefaultLocationTimeout = 10 * time.Second
	DefaultPriceTimeout    = 15 * time.Second
	DefaultMaxDaysAhead    = 120

	DefaultRateLimitRequests = 1000
	DefaultRateLimitWindow   = 15 * time.Minute
	DefaultCollapseSearches  = true

	// Upstream defaults point at cmd/provider running locally.
	DefaultTrainSuggestURL  = "http://localhost:9001/suggest"
	DefaultTrainFareURL     = "http://localhost:9001/fares"
	DefaultBusSuggestURL    = "http://localhost:9002/suggest"
	DefaultBusSearchURL     = "http://localhost:9002/search"
	DefaultFlightSuggestURL = "http://localhost:9003/suggest"
	DefaultFlightFareURL    = "http://localhost:9003/fares"

	DefaultBusPreferredRegion = "Maharashtra"
	DefaultBusOverrides       = `[{"query":"ashta","match":"sangli","region":"Maharashtra"}]`

	DefaultEventsSink           = "log"
	DefaultEventsQueueSize      = 256
	DefaultEventsPublishTimeout = 2 * time.Second
	DefaultRedisAddr            = "localhost:6379"
	DefaultEventsStream         = "travelsearch:events"
	DefaultEventsStreamMaxLen   = 10000
	DefaultKafkaTopic           = "travelsearch-events"
)
