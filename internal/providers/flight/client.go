// Package flight adapts the airport-suggestion and fare outlook upstreams.
package flight

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/alex-user-go/travelsearch/internal/providers"
	"github.com/alex-user-go/travelsearch/internal/providers/pricing"
	"github.com/alex-user-go/travelsearch/internal/search/types"
)

const (
	// ProviderName is reported on every flight option.
	ProviderName = "Ixigo"
	// DefaultClass is economy.
	DefaultClass = "e"

	maxResults   = 25
	fallbackFare = 5000
	dateLayout   = "02012006"
	userAgent    = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36"
)

var classMultipliers = map[string]float64{
	"e": 1.0,
	"b": 2.5,
	"w": 4.0,
}

var classNames = map[string]string{
	"e": "Economy",
	"b": "Business",
	"w": "Premium",
}

// Upstream fares carry no schedule, so every option gets the same placeholder times.
const (
	placeholderDeparture = "06:00"
	placeholderArrival   = "08:30"
	placeholderDuration  = "2h 30m"
)

var (
	defaultAirlines = []string{"Air India", "Air India Express"}
	amenities       = []string{"AC", "In-flight Entertainment", "Meals", "Baggage Allowance"}
)

// Config holds the upstream endpoints and identity for the flight adapter.
type Config struct {
	SuggestURL      string
	FareURL         string
	APIKey          string
	DeviceID        string
	LocationTimeout time.Duration
	PriceTimeout    time.Duration
	Now             func() time.Time
}

// Client resolves airports and fetches flight fares.
type Client struct {
	cfg     Config
	suggest *providers.HTTPClient
	fares   *providers.HTTPClient
}

// New creates a flight Client.
func New(cfg Config) *Client {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Client{
		cfg:     cfg,
		suggest: providers.NewHTTPClient(cfg.LocationTimeout),
		fares:   providers.NewHTTPClient(cfg.PriceTimeout),
	}
}

// Mode implements providers.LocationSource and providers.PriceSource.
func (c *Client) Mode() types.Mode {
	return types.ModeFlight
}

// Resolve looks up airports serving name. Airports whose city neither equals
// nor contains name are dropped.
func (c *Client) Resolve(ctx context.Context, name string) ([]types.Location, error) {
	city := strings.ToLower(name)
	query := url.Values{
		"searchFor":     {"airportSuggestions"},
		"value":         {city},
		"nearByAirport": {"true"},
	}

	headers := c.headers()
	headers.Set("referer", "https://www.ixigo.com/flights")

	var resp suggestResponse
	if err := c.suggest.GetJSON(ctx, c.cfg.SuggestURL, query, headers, &resp); err != nil {
		return nil, fmt.Errorf("airport lookup: %w", err)
	}

	var locations []types.Location
	for _, a := range resp.Data {
		if !strings.Contains(strings.ToLower(a.City), city) {
			continue
		}
		locations = append(locations, types.Location{
			Code:   a.Code,
			Name:   a.Name,
			Mode:   types.ModeFlight,
			City:   a.City,
			Region: a.State,
		})
	}
	return locations, nil
}

// FetchPrices returns fares between two airports for q.Class.
func (c *Client) FetchPrices(ctx context.Context, q providers.PriceQuery) ([]types.TravelOption, error) {
	class := q.Class
	if class == "" {
		class = DefaultClass
	}
	date := q.Date.Format(dateLayout)

	query := url.Values{
		"departureDate":      {date},
		"destination":        {q.To.Code},
		"fareClass":          {class},
		"origin":             {q.From.Code},
		"paxCombinationType": {"100"},
		"refundTypes":        {"REFUNDABLE,NON_REFUNDABLE,PARTIALLY_REFUNDABLE"},
	}

	referer := url.Values{
		"from":     {q.From.Code},
		"to":       {q.To.Code},
		"date":     {date},
		"adults":   {"1"},
		"children": {"0"},
		"infants":  {"0"},
		"class":    {class},
		"source":   {"Search Form"},
	}
	headers := c.headers()
	headers.Set("referer", "https://www.ixigo.com/search/result/flight?"+referer.Encode())

	var resp fareResponse
	if err := c.fares.GetJSON(ctx, c.cfg.FareURL, query, headers, &resp); err != nil {
		return nil, fmt.Errorf("flight fares: %w", err)
	}
	return c.toOptions(resp.Data.Going.Results, q, class), nil
}

func (c *Client) toOptions(rows []fareRow, q providers.PriceQuery, class string) []types.TravelOption {
	if len(rows) > maxResults {
		rows = rows[:maxResults]
	}
	multiplier := Multiplier(class)
	className, ok := classNames[class]
	if !ok {
		className = classNames[DefaultClass]
	}
	salt := c.cfg.Now().UnixMilli()

	options := make([]types.TravelOption, 0, len(rows))
	for i, row := range rows {
		fare := int(math.Round(row.Fare))
		if fare == 0 {
			fare = fallbackFare
		}
		ref := row.FlightNumber
		if ref == "" {
			ref = row.SearchID
		}

		stops := 0
		options = append(options, types.TravelOption{
			ID:               fmt.Sprintf("flight-%s-%d", row.SearchID, salt),
			Provider:         ProviderName,
			Mode:             types.ModeFlight,
			From:             types.Stop{Code: q.From.Code, Name: q.From.Name, Time: placeholderDeparture},
			To:               types.Stop{Code: q.To.Code, Name: q.To.Name, Time: placeholderArrival},
			Duration:         placeholderDuration,
			Price:            types.Price{Amount: pricing.Scale(fare, multiplier), Currency: "INR"},
			Available:        true,
			BookingReference: ref,
			Class:            className,
			Operator:         airlineName(row, i),
			Stops:            &stops,
			Amenities:        amenities,
		})
	}
	return options
}

func airlineName(row fareRow, i int) string {
	for _, s := range []string{row.Airline, row.AirlineCode, row.FlightNumber} {
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return defaultAirlines[i%len(defaultAirlines)]
}

// Multiplier reports the fare multiplier applied to a cabin class.
func Multiplier(class string) float64 {
	if m, ok := classMultipliers[class]; ok {
		return m
	}
	return 1.0
}

func (c *Client) headers() http.Header {
	return providers.Header(map[string]string{
		"accept":                  "*/*",
		"accept-encoding":         "gzip, deflate, br, zstd",
		"accept-language":         "en-GB,en-US;q=0.9,en;q=0.8",
		"apikey":                  c.cfg.APIKey,
		"appversion":              "2",
		"clientid":                "ixiweb",
		"deviceid":                c.cfg.DeviceID,
		"ixisrc":                  "ixiweb",
		"user-agent":              userAgent,
		"uuid":                    c.cfg.DeviceID,
		"x-request-webappversion": "2.8.1",
	})
}
