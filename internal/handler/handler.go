package handler

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alex-user-go/travelsearch/internal/events"
	"github.com/alex-user-go/travelsearch/internal/middleware"
	"github.com/alex-user-go/travelsearch/internal/obs"
	"github.com/alex-user-go/travelsearch/internal/search"
	"github.com/alex-user-go/travelsearch/internal/search/collapse"
	"github.com/alex-user-go/travelsearch/internal/search/ratelimit"
	"github.com/alex-user-go/travelsearch/internal/search/types"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

const msgMissingParams = "Missing required parameters: from, to, date"

// EventDispatcher accepts analytics events without blocking.
type EventDispatcher interface {
	Dispatch(e events.Event) bool
}

// Handler handles HTTP requests.
type Handler struct {
	engine    *search.Engine
	validator *search.Validator
	status    *search.StatusProbe
	collapse  *collapse.Group
	events    EventDispatcher
	metrics   *obs.Metrics
	logger    *zap.Logger
	started   time.Time
}

// New creates a new Handler. group and dispatcher may be nil to disable
// search collapsing and analytics.
func New(
	engine *search.Engine,
	validator *search.Validator,
	status *search.StatusProbe,
	group *collapse.Group,
	dispatcher EventDispatcher,
	metrics *obs.Metrics,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		engine:    engine,
		validator: validator,
		status:    status,
		collapse:  group,
		events:    dispatcher,
		metrics:   metrics,
		logger:    logger,
		started:   time.Now(),
	}
}

type validationResponse struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// StatusResponse is the body of GET /api/search/status.
type StatusResponse struct {
	Success bool       `json:"success"`
	Data    StatusData `json:"data"`
}

// StatusData lists one health entry per provider.
type StatusData struct {
	Providers []types.ProviderStatus `json:"providers"`
	Timestamp time.Time              `json:"timestamp"`
}

// HealthResponse is the body of GET /api/search/health.
type HealthResponse struct {
	Success bool       `json:"success"`
	Data    HealthData `json:"data"`
}

// HealthData describes the running process.
type HealthData struct {
	Status    string    `json:"status"`
	Uptime    float64   `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
}

// Search handles GET /api/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.metrics.IncRequests()
	requestID := middleware.RequestID(r.Context())

	req, ok := ParseSearchRequest(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, failureResponse{Success: false, Error: msgMissingParams}, h.logger)
		return
	}

	if problems := h.validator.Validate(req); len(problems) > 0 {
		h.logger.Debug("invalid search request",
			zap.String("request_id", requestID),
			zap.Strings("errors", problems))
		writeJSON(w, http.StatusBadRequest, validationResponse{Success: false, Errors: problems}, h.logger)
		return
	}
	req = search.Normalize(req)

	h.logger.Info("search request",
		zap.String("request_id", requestID),
		zap.String("from", req.From),
		zap.String("to", req.To),
		zap.String("date", req.Date),
		zap.String("flight_class", req.FlightClass),
		zap.String("train_class", req.TrainClass))

	var (
		result *types.Result
		shared bool
	)
	if h.collapse != nil {
		var err error
		result, shared, err = h.collapse.Do(r.Context(), collapse.Key(req), func(ctx context.Context) *types.Result {
			return h.engine.Search(ctx, req)
		})
		if err != nil {
			h.logger.Warn("search abandoned by caller",
				zap.String("request_id", requestID),
				zap.Error(err))
			writeError(w, http.StatusServiceUnavailable, "search cancelled")
			return
		}
		if shared {
			h.metrics.IncCollapsed()
		}
	} else {
		result = h.engine.Search(r.Context(), req)
	}

	h.metrics.IncSearches(result.Success)
	h.publish(requestID, req, result, shared, time.Since(start))

	writeJSON(w, statusFor(result), result, h.logger)
}

func (h *Handler) publish(requestID string, req types.SearchRequest, result *types.Result, shared bool, elapsed time.Duration) {
	if h.events == nil {
		return
	}
	h.events.Dispatch(events.NewEvent(events.TypeSearch, map[string]any{
		"request_id":   requestID,
		"from":         req.From,
		"to":           req.To,
		"date":         req.Date,
		"return_date":  req.ReturnDate,
		"flight_class": req.FlightClass,
		"train_class":  req.TrainClass,
		"success":      result.Success,
		"options":      len(result.Data.Options),
		"warnings":     len(result.Errors),
		"shared":       shared,
		"duration_ms":  elapsed.Milliseconds(),
	}))
}

// statusFor maps a search result to its HTTP status.
func statusFor(result *types.Result) int {
	if result.Success {
		return http.StatusOK
	}
	if result.Failure == types.FailureInternal {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

// Status handles GET /api/search/status.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	providers := h.status.Check(r.Context())
	writeJSON(w, http.StatusOK, StatusResponse{
		Success: true,
		Data: StatusData{
			Providers: providers,
			Timestamp: time.Now().UTC(),
		},
	}, h.logger)
}

// Health handles GET /api/search/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Success: true,
		Data: HealthData{
			Status:    "healthy",
			Uptime:    time.Since(h.started).Seconds(),
			Timestamp: time.Now().UTC(),
			Version:   Version,
		},
	}, h.logger)
}

// ParseSearchRequest reads the search query parameters. It reports false when
// from, to or date is absent.
func ParseSearchRequest(r *http.Request) (types.SearchRequest, bool) {
	query := r.URL.Query()
	req := types.SearchRequest{
		From:        query.Get("from"),
		To:          query.Get("to"),
		Date:        query.Get("date"),
		ReturnDate:  query.Get("returnDate"),
		FlightClass: query.Get("flightClass"),
		TrainClass:  query.Get("trainClass"),
	}
	if req.From == "" || req.To == "" || req.Date == "" {
		return req, false
	}
	return req, true
}

// RateLimit limits requests per client IP and reports the window in
// RateLimit-* headers.
func RateLimit(limiter *ratelimit.Limiter, metrics *obs.Metrics, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ExtractIP(r)
			d := limiter.Take(ip)

			reset := int(math.Ceil(time.Until(d.ResetAt).Seconds()))
			w.Header().Set("RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("RateLimit-Remaining", strconv.Itoa(d.Remaining))
			w.Header().Set("RateLimit-Reset", strconv.Itoa(max(reset, 0)))

			if !d.Allowed {
				metrics.IncRateLimited()
				logger.Warn("rate limit exceeded",
					zap.String("request_id", middleware.RequestID(r.Context())),
					zap.String("ip", ip))
				w.Header().Set("Retry-After", strconv.Itoa(max(reset, 0)))
				writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}

// ExtractIP extracts the client IP from the request.
// Checks X-Forwarded-For, X-Real-IP, then falls back to RemoteAddr.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			return strings.TrimSpace(ips[0])
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func writeJSON(w http.ResponseWriter, status int, body any, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Can't change status after WriteHeader, just log
		logger.Error("failed to encode response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
