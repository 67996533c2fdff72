package obs

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"go.uber.org/zap"
)

// Metrics tracks application metrics using atomic counters.
type Metrics struct {
	requests       atomic.Int64
	searchesOK     atomic.Int64
	searchesFailed atomic.Int64
	rateLimited    atomic.Int64
	collapsed      atomic.Int64
	trainErrors    atomic.Int64
	busErrors      atomic.Int64
	flightErrors   atomic.Int64
	logger         *zap.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *zap.Logger) *Metrics {
	return &Metrics{
		logger: logger,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requests.Add(1)
}

// IncSearches counts a finished search by outcome.
func (m *Metrics) IncSearches(success bool) {
	if success {
		m.searchesOK.Add(1)
		return
	}
	m.searchesFailed.Add(1)
}

// IncRateLimited increments the rejected-request counter.
func (m *Metrics) IncRateLimited() {
	m.rateLimited.Add(1)
}

// IncCollapsed counts a search answered by another caller's in-flight run.
func (m *Metrics) IncCollapsed() {
	m.collapsed.Add(1)
}

// IncUpstreamErrors counts a failed upstream call for a transport mode.
func (m *Metrics) IncUpstreamErrors(mode string) {
	switch mode {
	case "train":
		m.trainErrors.Add(1)
	case "bus":
		m.busErrors.Add(1)
	case "flight":
		m.flightErrors.Add(1)
	}
}

// Snapshot returns current metric values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Requests:       m.requests.Load(),
		SearchesOK:     m.searchesOK.Load(),
		SearchesFailed: m.searchesFailed.Load(),
		RateLimited:    m.rateLimited.Load(),
		Collapsed:      m.collapsed.Load(),
		UpstreamErrors: map[string]int64{
			"train":  m.trainErrors.Load(),
			"bus":    m.busErrors.Load(),
			"flight": m.flightErrors.Load(),
		},
	}
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	Requests       int64
	SearchesOK     int64
	SearchesFailed int64
	RateLimited    int64
	Collapsed      int64
	UpstreamErrors map[string]int64
}

// HealthHandler returns a handler for /healthz requests.
func HealthHandler(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health response", zap.Error(err))
		}
	}
}

type counter struct {
	name  string
	help  string
	value int64
}

// MetricsHandler returns a handler for /metrics requests in Prometheus format.
func (m *Metrics) MetricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := m.Snapshot()

		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		w.WriteHeader(http.StatusOK)

		counters := []counter{
			{"requests_total", "Total number of requests", snapshot.Requests},
			{"searches_succeeded_total", "Searches that returned a success result", snapshot.SearchesOK},
			{"searches_failed_total", "Searches that returned a failure result", snapshot.SearchesFailed},
			{"rate_limited_total", "Requests rejected by the rate limiter", snapshot.RateLimited},
			{"searches_collapsed_total", "Searches served by an identical in-flight search", snapshot.Collapsed},
		}
		for _, c := range counters {
			if _, err := fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s counter\n%s %d\n", c.name, c.help, c.name, c.name, c.value); err != nil {
				m.logger.Error("failed to write metrics", zap.Error(err))
				return
			}
		}

		if _, err := fmt.Fprintf(w, "# HELP upstream_errors_total Failed upstream calls by transport mode\n# TYPE upstream_errors_total counter\n"); err != nil {
			m.logger.Error("failed to write metrics", zap.Error(err))
			return
		}
		for _, mode := range []string{"train", "bus", "flight"} {
			if _, err := fmt.Fprintf(w, "upstream_errors_total{mode=%q} %d\n", mode, snapshot.UpstreamErrors[mode]); err != nil {
				m.logger.Error("failed to write metrics", zap.Error(err))
				return
			}
		}
	}
}
