// Package train adapts the railway station-suggestion and availability upstreams.
package train

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/alex-user-go/travelsearch/internal/providers"
	"github.com/alex-user-go/travelsearch/internal/providers/pricing"
	"github.com/alex-user-go/travelsearch/internal/search/types"
)

const (
	// ProviderName is reported on every train option.
	ProviderName = "IRCTC"
	// DefaultClass is used when no train class is requested.
	DefaultClass = "SL"

	baseFloor  = 800
	baseSpread = 1200
	dateLayout = "20060102"
	userAgent  = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/140.0.0.0 Safari/537.36"
)

// classMultipliers scale the base estimate so classes compare on one price axis.
var classMultipliers = map[string]float64{
	"2S": 0.3,
	"SL": 1.0,
	"3E": 1.8,
	"CC": 2.2,
	"3A": 2.8,
	"2A": 4.5,
	"1A": 8.0,
}

var classAmenities = map[string][]string{
	"1A": {"AC", "Bed Sheet", "Pillow", "Blanket", "Meals"},
	"2A": {"AC", "Bed Sheet", "Pillow", "Blanket"},
	"3A": {"AC", "Bed Sheet", "Pillow"},
	"3E": {"AC"},
	"CC": {"AC"},
	"SL": {"Fan"},
}

var stationCode = regexp.MustCompile(`\(([^)]+)\)$`)

// Config holds the upstream endpoints and identity for the train adapter.
type Config struct {
	SuggestURL      string
	FareURL         string
	APIKey          string
	DeviceID        string
	LocationTimeout time.Duration
	PriceTimeout    time.Duration
	Estimator       pricing.Estimator
	Now             func() time.Time
}

// Client resolves train stations and fetches train availability.
type Client struct {
	cfg     Config
	suggest *providers.HTTPClient
	fares   *providers.HTTPClient
}

// New creates a train Client.
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
		fares:   providers.NewHTTPClient(cfg.PriceTimeout),
	}
}

// Mode implements providers.LocationSource and providers.PriceSource.
func (c *Client) Mode() types.Mode {
	return types.ModeTrain
}

// Resolve looks up stations matching name.
func (c *Client) Resolve(ctx context.Context, name string) ([]types.Location, error) {
	query := url.Values{
		"searchFor": {"trainstationsLatLon"},
		"anchor":    {"false"},
		"value":     {strings.ToLower(name)},
	}

	var stations []station
	if err := c.suggest.GetJSON(ctx, c.cfg.SuggestURL, query, c.suggestHeaders(), &stations); err != nil {
		return nil, fmt.Errorf("train station lookup: %w", err)
	}

	locations := make([]types.Location, 0, len(stations))
	for _, s := range stations {
		display := strings.TrimSpace(s.DisplayName)
		if display == "" {
			display = strings.TrimSpace(s.Name)
		}
		if display == "" {
			continue
		}
		locations = append(locations, types.Location{
			Code: extractCode(display, s),
			Name: display,
			Mode: types.ModeTrain,
			City: name,
		})
	}
	return locations, nil
}

// extractCode prefers the code in a trailing "(CODE)" suffix, e.g. "Pune Jn (PUNE)".
func extractCode(display string, s station) string {
	if m := stationCode.FindStringSubmatch(display); m != nil {
		return m[1]
	}
	if s.ShortCode != "" {
		return s.ShortCode
	}
	return s.Code
}

// FetchPrices returns trains between q.From and q.To that offer q.Class.
func (c *Client) FetchPrices(ctx context.Context, q providers.PriceQuery) ([]types.TravelOption, error) {
	class := q.Class
	if class == "" {
		class = DefaultClass
	}

	body := availabilityRequest{
		SrcStn:         q.From.Code,
		DestStn:        q.To.Code,
		JrnyClass:      class,
		JrnyDate:       q.Date.Format(dateLayout),
		QuotaCode:      "GN",
		CurrentBooking: "false",
		TicketType:     "E",
	}

	headers := providers.Header(map[string]string{
		"accept":          "application/json, text/plain, */*",
		"accept-language": "en-US,en;q=0.9",
		"referer":         "https://www.irctc.co.in/nget/train-search",
		"user-agent":      userAgent,
		"greq":            strconv.FormatInt(c.cfg.Now().UnixMilli(), 10),
	})

	var resp availabilityResponse
	if err := c.fares.PostJSON(ctx, c.cfg.FareURL, body, headers, &resp); err != nil {
		return nil, fmt.Errorf("train availability: %w", err)
	}

	return c.toOptions(resp.Trains, q, class), nil
}

func (c *Client) toOptions(rows []trainRow, q providers.PriceQuery, class string) []types.TravelOption {
	multiplier := Multiplier(class)
	salt := c.cfg.Now().UnixMilli()

	options := make([]types.TravelOption, 0, len(rows))
	for _, row := range rows {
		if !slices.Contains(row.Classes, class) {
			continue
		}
		base := c.cfg.Estimator.Estimate(baseFloor, baseSpread)
		options = append(options, types.TravelOption{
			ID:       fmt.Sprintf("train-%s-%d", row.TrainNumber, salt),
			Provider: ProviderName,
			Mode:     types.ModeTrain,
			From: types.Stop{
				Code: q.From.Code,
				Name: q.From.Name,
				Time: orDefault(row.DepartureTime, "00:00"),
			},
			To: types.Stop{
				Code: q.To.Code,
				Name: q.To.Name,
				Time: orDefault(row.ArrivalTime, "00:00"),
			},
			Duration:         orDefault(row.Duration, "N/A"),
			Price:            types.Price{Amount: pricing.Scale(base, multiplier), Currency: "INR"},
			Available:        true,
			BookingReference: row.TrainNumber,
			Class:            class,
			Operator:         row.TrainName,
			Amenities:        Amenities(class),
		})
	}
	return options
}

// Amenities lists what a coach of the given class offers.
func Amenities(class string) []string {
	amenities := []string{"Charging Point", "Reading Light"}
	return append(amenities, classAmenities[class]...)
}

// Multiplier reports the price multiplier applied to class.
func Multiplier(class string) float64 {
	if m, ok := classMultipliers[class]; ok {
		return m
	}
	return 1.0
}

func (c *Client) suggestHeaders() http.Header {
	return providers.Header(map[string]string{
		"accept":          "*/*",
		"accept-encoding": "gzip, deflate, br, zstd",
		"accept-language": "en-GB,en-US;q=0.9,en;q=0.8",
		"apikey":          c.cfg.APIKey,
		"clientid":        "ixiweb",
		"deviceid":        c.cfg.DeviceID,
		"ixisrc":          "ixiweb",
		"referer":         "https://www.ixigo.com/trains",
		"user-agent":      userAgent,
		"uuid":            c.cfg.DeviceID,
	})
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
