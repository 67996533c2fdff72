package search_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/alex-user-go/travelsearch/internal/obs"
	"github.com/alex-user-go/travelsearch/internal/providers"
	"github.com/alex-user-go/travelsearch/internal/search"
	"github.com/alex-user-go/travelsearch/internal/search/types"
)

func TestStatusProbe_Check(t *testing.T) {
	train, bus, flight := mumbaiDelhi()
	bus.resolveErr = errors.New("dial tcp: connection refused")
	delete(flight.locations, "mumbai")

	logger := zap.NewNop()
	resolver := search.NewResolver([]providers.LocationSource{train, bus, flight}, obs.NewMetrics(logger), logger)
	statuses := search.NewStatusProbe(resolver).Check(context.Background())

	want := []types.ProviderStatus{
		{Provider: "IRCTC (Trains)", Success: true},
		{Provider: "Goibibo (Buses)", Success: false, Error: "Service unavailable"},
		{Provider: "Ixigo (Flights)", Success: false},
	}
	if len(statuses) != len(want) {
		t.Fatalf("got %d statuses, want %d", len(statuses), len(want))
	}
	for i := range want {
		if statuses[i] != want[i] {
			t.Errorf("status[%d] = %+v, want %+v", i, statuses[i], want[i])
		}
	}
}

func TestResolver_ResolveAll(t *testing.T) {
	train, bus, flight := mumbaiDelhi()
	flight.resolveErr = errors.New("boom")

	logger := zap.NewNop()
	metrics := obs.NewMetrics(logger)
	resolver := search.NewResolver([]providers.LocationSource{train, bus, flight}, metrics, logger)

	res := resolver.ResolveAll(context.Background(), "Mumbai")

	if res.Empty() {
		t.Fatal("expected locations")
	}
	if got := res.For(types.ModeTrain); len(got) != 2 || got[0].Code != "CSMT" {
		t.Errorf("train locations = %+v", got)
	}
	if got := res.For(types.ModeFlight); got != nil {
		t.Errorf("flight locations = %+v, want none", got)
	}
	failures := res.Failures()
	if len(failures) != 1 || failures[0].Mode != types.ModeFlight {
		t.Errorf("failures = %+v, want flight only", failures)
	}
	if metrics.Snapshot().UpstreamErrors["flight"] != 1 {
		t.Errorf("flight upstream errors = %d, want 1", metrics.Snapshot().UpstreamErrors["flight"])
	}
}
