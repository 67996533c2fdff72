package main

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type flightAirport struct {
	Code    string `json:"airportCode"`
	Name    string `json:"airportName"`
	City    string `json:"cityName"`
	State   string `json:"stateName"`
	Country string `json:"countryName"`
}

type flightFare struct {
	Airline      string  `json:"airline,omitempty"`
	AirlineCode  string  `json:"airlineCode,omitempty"`
	FlightNumber string  `json:"flightNumber,omitempty"`
	Fare         float64 `json:"fare"`
	SearchID     string  `json:"searchId"`
}

var airlines = []struct{ name, code string }{
	{"IndiGo", "6E"},
	{"Air India", "AI"},
	{"Akasa Air", "QP"},
	{"SpiceJet", "SG"},
	{"", ""},
}

// FlightMock imitates the airport suggestion and fare outlook APIs.
type FlightMock struct {
	upstream
}

// NewFlightMock creates a new FlightMock with 50-250ms latency and a 5% failure rate.
func NewFlightMock(logger *zap.Logger) *FlightMock {
	return &FlightMock{upstream{
		minLatency:  50 * time.Millisecond,
		maxLatency:  250 * time.Millisecond,
		failureRate: 0.05,
		encoding:    "zstd",
		logger:      logger,
	}}
}

// Register mounts the mock endpoints.
func (m *FlightMock) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /suggest", m.suggest)
	mux.HandleFunc("GET /fares", m.fares)
}

func (m *FlightMock) suggest(w http.ResponseWriter, r *http.Request) {
	airports := []flightAirport{}
	for _, p := range lookup(r.URL.Query().Get("value")) {
		if p.AirportCode == "" {
			continue
		}
		airports = append(airports, flightAirport{
			Code:    p.AirportCode,
			Name:    p.Airport,
			City:    p.City,
			State:   p.State,
			Country: "India",
		})
	}
	m.respond(w, r, map[string]any{"data": airports})
}

func (m *FlightMock) fares(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	origin, destination := q.Get("origin"), q.Get("destination")
	if origin == "" || destination == "" || q.Get("departureDate") == "" {
		http.Error(w, "missing required parameters", http.StatusBadRequest)
		return
	}

	results := make([]flightFare, 0, 30)
	for i := range 5 + rand.IntN(26) {
		a := airlines[i%len(airlines)]
		fare := flightFare{
			Airline:     a.name,
			AirlineCode: a.code,
			SearchID:    fmt.Sprintf("%s-%s-%d", origin, destination, i),
		}
		if a.code != "" {
			fare.FlightNumber = fmt.Sprintf("%s-%d", a.code, 100+rand.IntN(900))
		}
		if rand.Float64() > 0.1 {
			fare.Fare = float64(2500 + rand.IntN(9000))
		}
		results = append(results, fare)
	}

	m.respond(w, r, map[string]any{
		"data": map[string]any{"going": map[string]any{"results": results}},
	})
}
