package search

import (
	"context"

	"github.com/alex-user-go/travelsearch/internal/search/types"
)

// ProbeLocation is resolved by every provider on each status check.
const ProbeLocation = "Mumbai"

var providerLabels = map[types.Mode]string{
	types.ModeTrain:  "IRCTC (Trains)",
	types.ModeBus:    "Goibibo (Buses)",
	types.ModeFlight: "Ixigo (Flights)",
}

// StatusProbe reports whether each provider currently answers location lookups.
type StatusProbe struct {
	resolver *Resolver
}

// NewStatusProbe creates a new StatusProbe.
func NewStatusProbe(resolver *Resolver) *StatusProbe {
	return &StatusProbe{resolver: resolver}
}

// Check resolves ProbeLocation in every mode. A provider is up when it returns
// at least one location; Error is set only when the lookup itself failed.
func (p *StatusProbe) Check(ctx context.Context) []types.ProviderStatus {
	res := p.resolver.ResolveAll(ctx, ProbeLocation)

	statuses := make([]types.ProviderStatus, 0, len(res.Modes))
	for _, m := range res.Modes {
		label, ok := providerLabels[m.Mode]
		if !ok {
			label = string(m.Mode)
		}
		status := types.ProviderStatus{
			Provider: label,
			Success:  m.Err == nil && len(m.Locations) > 0,
		}
		if m.Err != nil {
			status.Error = "Service unavailable"
		}
		statuses = append(statuses, status)
	}
	return statuses
}
