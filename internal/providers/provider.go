package providers

import (
	"context"
	"errors"
	"time"

	"github.com/alex-user-go/travelsearch/internal/search/types"
)

// LocationSource resolves a free-text place name into codes for one transport mode.
type LocationSource interface {
	Mode() types.Mode
	// Resolve returns the candidate locations for name, best match first.
	Resolve(ctx context.Context, name string) ([]types.Location, error)
}

// PriceSource fetches priced travel options between two resolved locations.
type PriceSource interface {
	Mode() types.Mode
	FetchPrices(ctx context.Context, q PriceQuery) ([]types.TravelOption, error)
}

// PriceQuery describes one price lookup.
type PriceQuery struct {
	From  types.Location
	To    types.Location
	Date  time.Time
	Class string
}

// ErrMalformed is returned when an upstream body does not have the expected shape.
var ErrMalformed = errors.New("malformed upstream response")
