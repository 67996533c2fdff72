package flight_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/alex-user-go/travelsearch/internal/providers"
	"github.com/alex-user-go/travelsearch/internal/providers/flight"
	"github.com/alex-user-go/travelsearch/internal/search/types"
)

func newClient(suggestURL, fareURL string) *flight.Client {
	return flight.New(flight.Config{
		SuggestURL:      suggestURL,
		FareURL:         fareURL,
		APIKey:          "k",
		DeviceID:        "d",
		LocationTimeout: time.Second,
		PriceTimeout:    time.Second,
		Now: func() time.Time {
			return time.UnixMilli(42)
		},
	})
}

func TestClient_Resolve_FiltersByCity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("searchFor") != "airportSuggestions" || q.Get("nearByAirport") != "true" || q.Get("value") != "mumbai" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"data":[
			{"airportCode":"BOM","airportName":"Chhatrapati Shivaji Maharaj International","cityName":"Mumbai","stateName":"Maharashtra"},
			{"airportCode":"NMI","airportName":"Navi Mumbai International","cityName":"Navi Mumbai","stateName":"Maharashtra"},
			{"airportCode":"PNQ","airportName":"Pune","cityName":"Pune","stateName":"Maharashtra"},
			{"airportCode":"XXX","airportName":"Unknown","cityName":""}
		]}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, srv.URL)
	locs, err := c.Resolve(context.Background(), "Mumbai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(locs) != 2 {
		t.Fatalf("got %d airports, want 2: %+v", len(locs), locs)
	}
	if locs[0].Code != "BOM" || locs[1].Code != "NMI" {
		t.Errorf("codes = %s, %s; want BOM, NMI", locs[0].Code, locs[1].Code)
	}
	if locs[0].Mode != types.ModeFlight || locs[0].Region != "Maharashtra" {
		t.Errorf("unexpected location %+v", locs[0])
	}
}

func fareServer(t *testing.T, check func(q url.Values, r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r.URL.Query(), r)
		}
		_, _ = w.Write([]byte(`{"data":{"going":{"results":[
			{"airline":"IndiGo","flightNumber":"6E-201","fare":4321,"searchId":"s1"},
			{"airline":" ","airlineCode":"UK","fare":0,"searchId":"s2"},
			{"searchId":"s3","fare":3000},
			{"searchId":"s4","fare":3100}
		]}}}`))
	}))
}

func query() providers.PriceQuery {
	return providers.PriceQuery{
		From: types.Location{Code: "BOM", Name: "Mumbai"},
		To:   types.Location{Code: "DEL", Name: "Delhi"},
		Date: time.Date(2025, 12, 5, 0, 0, 0, 0, time.UTC),
	}
}

func TestClient_FetchPrices(t *testing.T) {
	srv := fareServer(t, func(q url.Values, r *http.Request) {
		want := map[string]string{
			"departureDate":      "05122025",
			"origin":             "BOM",
			"destination":        "DEL",
			"fareClass":          "e",
			"paxCombinationType": "100",
			"refundTypes":        "REFUNDABLE,NON_REFUNDABLE,PARTIALLY_REFUNDABLE",
		}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("query %s = %q, want %q", k, got, v)
			}
		}
		if r.Header.Get("referer") == "" {
			t.Error("referer header missing")
		}
	})
	defer srv.Close()

	c := newClient(srv.URL, srv.URL)
	opts, err := c.FetchPrices(context.Background(), query())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts) != 4 {
		t.Fatalf("got %d options, want 4", len(opts))
	}

	tests := []struct {
		operator string
		amount   int
		ref      string
	}{
		{"IndiGo", 4321, "6E-201"},
		{"UK", 5000, "s2"},
		{"Air India", 3000, "s3"},
		{"Air India Express", 3100, "s4"},
	}
	for i, tt := range tests {
		o := opts[i]
		if o.Operator != tt.operator || o.Price.Amount != tt.amount || o.BookingReference != tt.ref {
			t.Errorf("option %d = {%s %d %s}, want {%s %d %s}",
				i, o.Operator, o.Price.Amount, o.BookingReference, tt.operator, tt.amount, tt.ref)
		}
		if o.Class != "Economy" || o.From.Time != "06:00" || o.To.Time != "08:30" || o.Duration != "2h 30m" {
			t.Errorf("option %d placeholders = %+v", i, o)
		}
	}
	if opts[0].ID != "flight-s1-42" {
		t.Errorf("id = %q", opts[0].ID)
	}
}

func TestClient_FetchPrices_BusinessIsTwoAndHalfEconomy(t *testing.T) {
	srv := fareServer(t, nil)
	defer srv.Close()
	c := newClient(srv.URL, srv.URL)

	economy, err := c.FetchPrices(context.Background(), query())
	if err != nil {
		t.Fatalf("economy: %v", err)
	}
	q := query()
	q.Class = "b"
	business, err := c.FetchPrices(context.Background(), q)
	if err != nil {
		t.Fatalf("business: %v", err)
	}

	for i := range economy {
		want := int(float64(economy[i].Price.Amount)*2.5 + 0.5)
		if business[i].Price.Amount != want {
			t.Errorf("row %d: business %d, want 2.5x economy %d = %d",
				i, business[i].Price.Amount, economy[i].Price.Amount, want)
		}
		if business[i].Class != "Business" {
			t.Errorf("row %d class = %q", i, business[i].Class)
		}
	}
}

func TestClient_FetchPrices_Truncates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `{"data":{"going":{"results":[`
		for i := 0; i < 30; i++ {
			if i > 0 {
				body += ","
			}
			body += `{"airline":"A","fare":1000,"searchId":"x"}`
		}
		body += `]}}}`
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	opts, err := newClient(srv.URL, srv.URL).FetchPrices(context.Background(), query())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts) != 25 {
		t.Errorf("got %d options, want 25", len(opts))
	}
}
