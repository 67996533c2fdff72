package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/alex-user-go/travelsearch/internal/obs"
	"github.com/alex-user-go/travelsearch/internal/providers"
	"github.com/alex-user-go/travelsearch/internal/search/types"
)

const (
	// DefaultFlightClass is economy.
	DefaultFlightClass = "e"
	// DefaultTrainClass is sleeper.
	DefaultTrainClass = "SL"

	msgInternal = "Internal server error during search"
	msgNoRoute  = "No valid transport routes found between specified locations"
)

// ModeOptions is the outcome of one mode's price fetch.
type ModeOptions struct {
	Mode    types.Mode
	Options []types.TravelOption
	Err     error
}

// Engine resolves both endpoints of a search, fetches prices for every mode
// the endpoints share, and ranks the merged options.
type Engine struct {
	resolver *Resolver
	sources  []providers.PriceSource
	timeout  time.Duration
	metrics  *obs.Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewEngine creates a new Engine.
func NewEngine(resolver *Resolver, sources []providers.PriceSource, timeout time.Duration, metrics *obs.Metrics, logger *zap.Logger) *Engine {
	return &Engine{
		resolver: resolver,
		sources:  sources,
		timeout:  timeout,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,
	}
}

// Normalize trims the request and fills in default classes.
func Normalize(req types.SearchRequest) types.SearchRequest {
	req = trimRequest(req)
	if req.FlightClass == "" {
		req.FlightClass = DefaultFlightClass
	}
	if req.TrainClass == "" {
		req.TrainClass = DefaultTrainClass
	}
	return req
}

// Search runs one aggregated search. It always returns a result: failures are
// reported through Success, Errors and Failure rather than as an error.
func (e *Engine) Search(ctx context.Context, req types.SearchRequest) (result *types.Result) {
	req = Normalize(req)

	defer func() {
		if p := recover(); p != nil {
			e.logger.Error("search panicked",
				zap.String("from", req.From),
				zap.String("to", req.To),
				zap.Any("panic", p),
				zap.Stack("stack"))
			result = e.failure(req, types.FailureInternal, msgInternal)
		}
	}()

	date, err := time.Parse(types.DateLayout, req.Date)
	if err != nil {
		return e.failure(req, types.FailureInvalid, "Date must be in YYYY-MM-DD format")
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	from, to := e.resolveEndpoints(ctx, req.From, req.To)

	var fatal []string
	if from.Empty() {
		fatal = append(fatal, "Failed to resolve departure location: "+req.From)
	}
	if to.Empty() {
		fatal = append(fatal, "Failed to resolve destination location: "+req.To)
	}
	if len(fatal) > 0 {
		e.logger.Info("endpoint resolution failed",
			zap.String("from", req.From),
			zap.String("to", req.To),
			zap.Strings("errors", fatal))
		return e.failure(req, types.FailureResolution, fatal...)
	}

	warnings := resolutionWarnings(from, "departure")
	warnings = append(warnings, resolutionWarnings(to, "destination")...)

	var queries []pendingFetch
	for _, source := range e.sources {
		mode := source.Mode()
		fromLocs, toLocs := from.For(mode), to.For(mode)
		if len(fromLocs) == 0 || len(toLocs) == 0 {
			continue
		}
		queries = append(queries, pendingFetch{
			mode:   mode,
			source: source,
			query: providers.PriceQuery{
				From:  fromLocs[0],
				To:    toLocs[0],
				Date:  date,
				Class: classFor(mode, req),
			},
		})
	}
	if len(queries) == 0 {
		return e.failure(req, types.FailureNoRoute, msgNoRoute)
	}

	fetched := e.fetchAll(ctx, queries)

	var merged []types.TravelOption
	for _, f := range fetched {
		if f.Err != nil {
			warnings = append(warnings, priceWarning(f))
			continue
		}
		merged = append(merged, f.Options...)
	}

	options := Rank(merged, MaxResults)
	e.logger.Info("search completed",
		zap.String("from", req.From),
		zap.String("to", req.To),
		zap.Int("modes", len(queries)),
		zap.Int("options", len(options)),
		zap.Int("warnings", len(warnings)))

	res := &types.Result{
		Success: true,
		Data: types.ResultData{
			Options:      options,
			SearchParams: req,
			Timestamp:    e.now().UTC(),
		},
	}
	if len(warnings) > 0 {
		res.Errors = warnings
	}
	return res
}

// resolveEndpoints resolves both endpoints concurrently and waits for both.
// A panic on either branch is re-raised on the calling goroutine.
func (e *Engine) resolveEndpoints(ctx context.Context, fromName, toName string) (from, to *Resolution) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		panicked any
	)
	run := func(dst **Resolution, name string) {
		wg.Go(func() {
			defer func() {
				if p := recover(); p != nil {
					mu.Lock()
					panicked = p
					mu.Unlock()
				}
			}()
			*dst = e.resolver.ResolveAll(ctx, name)
		})
	}
	run(&from, fromName)
	run(&to, toName)
	wg.Wait()

	if panicked != nil {
		panic(panicked)
	}
	return from, to
}

type pendingFetch struct {
	mode   types.Mode
	source providers.PriceSource
	query  providers.PriceQuery
}

// fetchAll runs every price fetch concurrently and returns results in input order.
func (e *Engine) fetchAll(ctx context.Context, queries []pendingFetch) []ModeOptions {
	results := make([]ModeOptions, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Go(func() {
			results[i] = e.fetch(ctx, q)
		})
	}
	wg.Wait()

	return results
}

func (e *Engine) fetch(ctx context.Context, q pendingFetch) (res ModeOptions) {
	res.Mode = q.mode
	defer func() {
		if p := recover(); p != nil {
			res = ModeOptions{Mode: q.mode, Err: fmt.Errorf("price lookup panicked: %v", p)}
		}
		if res.Err != nil {
			e.metrics.IncUpstreamErrors(string(res.Mode))
			e.logger.Warn("price lookup failed",
				zap.String("mode", string(res.Mode)),
				zap.String("from", q.query.From.Code),
				zap.String("to", q.query.To.Code),
				zap.Error(res.Err))
		}
	}()

	options, err := q.source.FetchPrices(ctx, q.query)
	if err != nil {
		return ModeOptions{Mode: res.Mode, Err: err}
	}
	return ModeOptions{Mode: res.Mode, Options: options}
}

func (e *Engine) failure(req types.SearchRequest, kind types.FailureKind, errs ...string) *types.Result {
	return &types.Result{
		Success: false,
		Data: types.ResultData{
			Options:      []types.TravelOption{},
			SearchParams: req,
			Timestamp:    e.now().UTC(),
		},
		Errors:  errs,
		Failure: kind,
	}
}

func classFor(mode types.Mode, req types.SearchRequest) string {
	switch mode {
	case types.ModeTrain:
		return req.TrainClass
	case types.ModeFlight:
		return req.FlightClass
	default:
		return ""
	}
}

func resolutionWarnings(r *Resolution, endpoint string) []string {
	var warnings []string
	for _, f := range r.Failures() {
		warnings = append(warnings, fmt.Sprintf("%s location lookup failed for %s location %s", f.Mode, endpoint, r.Name))
	}
	return warnings
}

func priceWarning(f ModeOptions) string {
	if errors.Is(f.Err, context.DeadlineExceeded) {
		return fmt.Sprintf("%s price lookup timed out", f.Mode)
	}
	return fmt.Sprintf("%s price lookup failed", f.Mode)
}
