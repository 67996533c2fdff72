package train_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/alex-user-go/travelsearch/internal/providers"
	"github.com/alex-user-go/travelsearch/internal/providers/pricing"
	"github.com/alex-user-go/travelsearch/internal/providers/train"
	"github.com/alex-user-go/travelsearch/internal/search/types"
)

func fixedNow() time.Time {
	return time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)
}

func newClient(suggestURL, fareURL string) *train.Client {
	return train.New(train.Config{
		SuggestURL:      suggestURL,
		FareURL:         fareURL,
		APIKey:          "test-key",
		DeviceID:        "test-device",
		LocationTimeout: time.Second,
		PriceTimeout:    time.Second,
		Estimator:       pricing.Constant(1000),
		Now:             fixedNow,
	})
}

func TestClient_Resolve(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("searchFor") != "trainstationsLatLon" || q.Get("anchor") != "false" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if q.Get("value") != "pune" {
			t.Errorf("value = %q, want lowercased name", q.Get("value"))
		}
		if r.Header.Get("apikey") != "test-key" {
			t.Errorf("apikey header = %q", r.Header.Get("apikey"))
		}
		_, _ = w.Write([]byte(`[
			{"e":"Pune Jn (PUNE)","a":"PNE","code":"X"},
			{"name":"Shivajinagar","a":"SVJR"},
			{"e":"","name":"","code":"NONE"},
			{"e":"Hadapsar","code":"HDP"}
		]`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, srv.URL)
	locs, err := c.Resolve(context.Background(), "Pune")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []types.Location{
		{Code: "PUNE", Name: "Pune Jn (PUNE)", Mode: types.ModeTrain, City: "Pune"},
		{Code: "SVJR", Name: "Shivajinagar", Mode: types.ModeTrain, City: "Pune"},
		{Code: "HDP", Name: "Hadapsar", Mode: types.ModeTrain, City: "Pune"},
	}
	if len(locs) != len(want) {
		t.Fatalf("got %d locations, want %d: %+v", len(locs), len(want), locs)
	}
	for i := range want {
		if locs[i] != want[i] {
			t.Errorf("location[%d] = %+v, want %+v", i, locs[i], want[i])
		}
	}
}

func TestClient_Resolve_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newClient(srv.URL, srv.URL)
	if _, err := c.Resolve(context.Background(), "Pune"); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func fareServer(t *testing.T, check func(body map[string]any, r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if check != nil {
			check(body, r)
		}
		_, _ = w.Write([]byte(`{"trainBtwnStnsList":[
			{"trainNumber":"12951","trainName":"Rajdhani","departureTime":"16:35","arrivalTime":"08:32","duration":"15:57","avlClasses":["1A","2A","3A"]},
			{"trainNumber":"12137","trainName":"Punjab Mail","departureTime":"19:35","arrivalTime":"","duration":"","avlClasses":["SL","3A","2A"]},
			{"trainNumber":"22221","trainName":"Vande Bharat","departureTime":"06:00","arrivalTime":"14:00","duration":"8:00","avlClasses":["CC"]}
		]}`))
	}))
}

func TestClient_FetchPrices_Payload(t *testing.T) {
	srv := fareServer(t, func(body map[string]any, r *http.Request) {
		wantFields := map[string]any{
			"srcStn":                   "CSMT",
			"destStn":                  "NDLS",
			"jrnyClass":                "3A",
			"jrnyDate":                 "20251215",
			"quotaCode":                "GN",
			"currentBooking":           "false",
			"ticketType":               "E",
			"concessionBooking":        false,
			"flexiFlag":                false,
			"handicapFlag":             false,
			"loyaltyRedemptionBooking": false,
			"ftBooking":                false,
		}
		for k, v := range wantFields {
			if body[k] != v {
				t.Errorf("payload %s = %v, want %v", k, body[k], v)
			}
		}
		if got := r.Header.Get("greq"); got != "1764579600000" {
			t.Errorf("greq header = %q", got)
		}
	})
	defer srv.Close()

	c := newClient(srv.URL, srv.URL)
	opts, err := c.FetchPrices(context.Background(), providers.PriceQuery{
		From:  types.Location{Code: "CSMT", Name: "Mumbai CSMT"},
		To:    types.Location{Code: "NDLS", Name: "New Delhi"},
		Date:  time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
		Class: "3A",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts) != 2 {
		t.Fatalf("got %d options, want 2 trains offering 3A", len(opts))
	}
	for _, o := range opts {
		if o.Price.Amount != 2800 {
			t.Errorf("train %s price = %d, want 2800", o.BookingReference, o.Price.Amount)
		}
		if o.Class != "3A" || o.Provider != train.ProviderName || o.Price.Currency != "INR" {
			t.Errorf("unexpected option %+v", o)
		}
	}
}

func TestClient_FetchPrices_DefaultsAndMapping(t *testing.T) {
	srv := fareServer(t, func(body map[string]any, _ *http.Request) {
		if body["jrnyClass"] != "SL" {
			t.Errorf("jrnyClass = %v, want SL default", body["jrnyClass"])
		}
	})
	defer srv.Close()

	c := newClient(srv.URL, srv.URL)
	opts, err := c.FetchPrices(context.Background(), providers.PriceQuery{
		From: types.Location{Code: "CSMT", Name: "Mumbai CSMT"},
		To:   types.Location{Code: "ASR", Name: "Amritsar"},
		Date: time.Date(2025, 12, 15, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(opts) != 1 {
		t.Fatalf("got %d options, want 1", len(opts))
	}

	o := opts[0]
	if o.ID != "train-12137-1764579600000" {
		t.Errorf("id = %q", o.ID)
	}
	if o.From.Time != "19:35" || o.To.Time != "00:00" {
		t.Errorf("times = %q -> %q, want 19:35 -> 00:00", o.From.Time, o.To.Time)
	}
	if o.Duration != "N/A" {
		t.Errorf("duration = %q, want N/A", o.Duration)
	}
	if o.Price.Amount != 1000 || !o.Available {
		t.Errorf("price/availability = %d/%v", o.Price.Amount, o.Available)
	}
	if !slices.Contains(o.Amenities, "Fan") || !slices.Contains(o.Amenities, "Charging Point") {
		t.Errorf("amenities = %v", o.Amenities)
	}
}

func TestClient_FetchPrices_ClassMultipliers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"trainBtwnStnsList":[
			{"trainNumber":"1","trainName":"All Classes","departureTime":"10:00","arrivalTime":"20:00","duration":"10:00",
			 "avlClasses":["2S","SL","3E","CC","3A","2A","1A"]}
		]}`))
	}))
	defer srv.Close()

	c := newClient(srv.URL, srv.URL)
	prices := map[string]int{}
	for _, class := range []string{"2S", "SL", "3E", "CC", "3A", "2A", "1A"} {
		opts, err := c.FetchPrices(context.Background(), providers.PriceQuery{Class: class, Date: fixedNow()})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", class, err)
		}
		if len(opts) != 1 {
			t.Fatalf("%s: got %d options, want 1", class, len(opts))
		}
		prices[class] = opts[0].Price.Amount
	}

	if prices["1A"] != 8*prices["SL"] {
		t.Errorf("1A price %d is not 8x SL price %d", prices["1A"], prices["SL"])
	}
	want := map[string]int{"2S": 300, "SL": 1000, "3E": 1800, "CC": 2200, "3A": 2800, "2A": 4500, "1A": 8000}
	for class, p := range want {
		if prices[class] != p {
			t.Errorf("%s price = %d, want %d", class, prices[class], p)
		}
	}
}

func TestAmenities(t *testing.T) {
	tests := []struct {
		class string
		want  []string
	}{
		{"1A", []string{"Charging Point", "Reading Light", "AC", "Bed Sheet", "Pillow", "Blanket", "Meals"}},
		{"3E", []string{"Charging Point", "Reading Light", "AC"}},
		{"2S", []string{"Charging Point", "Reading Light"}},
	}
	for _, tt := range tests {
		if got := train.Amenities(tt.class); !slices.Equal(got, tt.want) {
			t.Errorf("Amenities(%s) = %v, want %v", tt.class, got, tt.want)
		}
	}
}
