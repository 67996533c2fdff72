package search

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/alex-user-go/travelsearch/internal/obs"
	"github.com/alex-user-go/travelsearch/internal/providers"
	"github.com/alex-user-go/travelsearch/internal/search/types"
)

// ModeLocations is the outcome of resolving a place name in one transport mode.
// Err is set when the lookup failed; an empty Locations with a nil Err means the
// upstream simply knew no matching place.
type ModeLocations struct {
	Mode      types.Mode
	Locations []types.Location
	Err       error
}

// Resolution holds every mode's lookup result for one place name.
type Resolution struct {
	Name  string
	Modes []ModeLocations
}

// For returns the locations resolved for mode.
func (r *Resolution) For(mode types.Mode) []types.Location {
	for _, m := range r.Modes {
		if m.Mode == mode {
			return m.Locations
		}
	}
	return nil
}

// Empty reports whether no mode produced a location.
func (r *Resolution) Empty() bool {
	for _, m := range r.Modes {
		if len(m.Locations) > 0 {
			return false
		}
	}
	return true
}

// Failures returns the modes whose lookup failed.
func (r *Resolution) Failures() []ModeLocations {
	var failed []ModeLocations
	for _, m := range r.Modes {
		if m.Err != nil {
			failed = append(failed, m)
		}
	}
	return failed
}

// Resolver looks up a place name in every transport mode concurrently.
type Resolver struct {
	sources []providers.LocationSource
	metrics *obs.Metrics
	logger  *zap.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(sources []providers.LocationSource, metrics *obs.Metrics, logger *zap.Logger) *Resolver {
	return &Resolver{
		sources: sources,
		metrics: metrics,
		logger:  logger,
	}
}

// ResolveAll queries every source for name. A failing source never affects
// the others; its error is recorded on its ModeLocations entry.
func (r *Resolver) ResolveAll(ctx context.Context, name string) *Resolution {
	results := make([]ModeLocations, len(r.sources))

	var wg sync.WaitGroup
	for i, source := range r.sources {
		wg.Go(func() {
			results[i] = r.resolve(ctx, source, name)
		})
	}
	wg.Wait()

	return &Resolution{Name: name, Modes: results}
}

func (r *Resolver) resolve(ctx context.Context, source providers.LocationSource, name string) (res ModeLocations) {
	defer func() {
		if p := recover(); p != nil {
			res = ModeLocations{Mode: res.Mode, Err: fmt.Errorf("location lookup panicked: %v", p)}
		}
		if res.Err != nil {
			r.metrics.IncUpstreamErrors(string(res.Mode))
			r.logger.Warn("location lookup failed",
				zap.String("mode", string(res.Mode)),
				zap.String("name", name),
				zap.Error(res.Err))
		}
	}()

	res.Mode = source.Mode()
	locations, err := source.Resolve(ctx, name)
	if err != nil {
		return ModeLocations{Mode: res.Mode, Err: err}
	}
	return ModeLocations{Mode: res.Mode, Locations: locations}
}
