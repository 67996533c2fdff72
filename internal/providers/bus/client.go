// Package bus adapts the bus auto-suggest and bus search upstreams.
package bus

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alex-user-go/travelsearch/internal/providers"
	"github.com/alex-user-go/travelsearch/internal/providers/pricing"
	"github.com/alex-user-go/travelsearch/internal/search/types"
)

const (
	// ProviderName is reported on every bus option.
	ProviderName = "Goibibo"

	maxGroups     = 20
	maxAmenities  = 6
	fallbackFloor = 500
	fallbackRange = 1500
	dateLayout    = "20060102"
	userAgent     = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36"
)

// Config holds the upstream endpoints and ranking rules for the bus adapter.
type Config struct {
	SuggestURL      string
	SearchURL       string
	DeviceID        string
	PreferredRegion string
	Overrides       []Override
	LocationTimeout time.Duration
	PriceTimeout    time.Duration
	Estimator       pricing.Estimator
	Now             func() time.Time
}

// Client resolves bus stops and searches bus departures.
type Client struct {
	cfg     Config
	suggest *providers.HTTPClient
	search  *providers.HTTPClient
}

// New creates a bus Client.
func New(cfg Config) *Client {
	if cfg.Estimator == nil {
		cfg.Estimator = pricing.Random{}
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Client{
		cfg:     cfg,
		suggest: providers.NewHTTPClient(cfg.LocationTimeout),
		search:  providers.NewHTTPClient(cfg.PriceTimeout),
	}
}

// Mode implements providers.LocationSource and providers.PriceSource.
func (c *Client) Mode() types.Mode {
	return types.ModeBus
}

// Resolve looks up bus places matching name and ranks them.
func (c *Client) Resolve(ctx context.Context, name string) ([]types.Location, error) {
	query := url.Values{
		"version": {"v2"},
		"new":     {"1"},
		"query":   {strings.ToLower(name)},
	}
	headers := baseHeaders()

	var resp suggestResponse
	if err := c.suggest.GetJSON(ctx, c.cfg.SuggestURL, query, headers, &resp); err != nil {
		return nil, fmt.Errorf("bus place lookup: %w", err)
	}

	locations := make([]types.Location, 0, len(resp.Data.Documents))
	for _, d := range resp.Data.Documents {
		short := strings.TrimSpace(d.Name)
		if short == "" {
			short = strings.TrimSpace(strings.Split(d.DisplayName, ",")[0])
		}
		if short == "" {
			continue
		}
		locations = append(locations, types.Location{
			Code:   d.ID,
			Name:   short,
			Mode:   types.ModeBus,
			City:   short,
			Region: d.Region,
		})
	}
	return Rank(locations, name, c.cfg.PreferredRegion, c.cfg.Overrides), nil
}

// FetchPrices searches departures between q.From and q.To. Bus search has no class.
func (c *Client) FetchPrices(ctx context.Context, q providers.PriceQuery) ([]types.TravelOption, error) {
	form := url.Values{
		"dest":     {q.To.Name},
		"dest_vid": {q.To.Code},
		"doj":      {q.Date.Format(dateLayout)},
		"src":      {q.From.Name},
		"src_vid":  {q.From.Code},
	}

	headers := baseHeaders()
	headers.Set("device-id", c.cfg.DeviceID)
	headers.Set("itinerary-id", uuid.NewString())
	headers.Set("priority", "u=1, i")

	var resp searchResponse
	if err := c.search.PostForm(ctx, c.cfg.SearchURL, form, headers, &resp); err != nil {
		return nil, fmt.Errorf("bus search: %w", err)
	}
	return c.toOptions(resp, q), nil
}

func (c *Client) toOptions(resp searchResponse, q providers.PriceQuery) []types.TravelOption {
	amenities := make([]string, 0, maxAmenities)
	for _, a := range resp.Amenities {
		if name := strings.TrimSpace(a.Name); name != "" {
			amenities = append(amenities, name)
		}
		if len(amenities) == maxAmenities {
			break
		}
	}

	groups := resp.Buses
	if len(groups) > maxGroups {
		groups = groups[:maxGroups]
	}

	salt := c.cfg.Now().UnixMilli()
	options := make([]types.TravelOption, 0, len(groups))
	for _, g := range groups {
		if len(g.Departures) == 0 {
			continue
		}
		first := g.Departures[0]

		amount := int(math.Round(g.Fare.Total))
		if amount == 0 {
			amount = int(math.Round(g.Fare.PerPerson))
		}
		if amount == 0 {
			amount = c.cfg.Estimator.Estimate(fallbackFloor, fallbackRange)
		}

		operator := strings.TrimSpace(first.Operator)
		if operator == "" {
			operator = "Bus Operator"
		}

		stops := 0
		options = append(options, types.TravelOption{
			ID:       fmt.Sprintf("bus-%s-%d", first.BusID, salt),
			Provider: ProviderName,
			Mode:     types.ModeBus,
			From: types.Stop{
				Code: q.From.Code,
				Name: q.From.Name,
				Time: orDefault(first.DepartsAt, "00:00"),
			},
			To: types.Stop{
				Code: q.To.Code,
				Name: q.To.Name,
				Time: orDefault(first.ArrivesAt, "00:00"),
			},
			Duration:         orDefault(first.Duration, "N/A"),
			Price:            types.Price{Amount: amount, Currency: "INR"},
			Available:        first.SeatsLeft > 0,
			BookingReference: first.BusID,
			Operator:         operator,
			Stops:            &stops,
			Amenities:        amenities,
		})
	}
	return options
}

func baseHeaders() http.Header {
	return providers.Header(map[string]string{
		"accept":          "*/*",
		"accept-encoding": "gzip, deflate, br, zstd",
		"accept-language": "en-GB,en-US;q=0.9,en;q=0.8",
		"origin":          "https://www.goibibo.com",
		"referer":         "https://www.goibibo.com/",
		"user-agent":      userAgent,
	})
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
