package main

import (
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type busDocument struct {
	ID          string `json:"id"`
	Name        string `json:"n"`
	DisplayName string `json:"dn"`
	Region      string `json:"p"`
}

type busDeparture struct {
	BusID     string `json:"bid"`
	DepartsAt string `json:"dt"`
	ArrivesAt string `json:"at"`
	Duration  string `json:"du"`
	SeatsLeft int    `json:"aws"`
	Operator  string `json:"cr"`
}

type busFare struct {
	Total     float64 `json:"tf,omitempty"`
	PerPerson float64 `json:"pp,omitempty"`
}

type busGroup struct {
	Fare       busFare        `json:"fd"`
	Departures []busDeparture `json:"fl"`
}

type busAmenity struct {
	Name string `json:"n"`
}

var busOperators = []string{"VRL Travels", "Neeta Tours", "Prasanna Purple", "Orange Tours", "Paulo Travels", ""}

var busAmenities = []string{"WiFi", "Water Bottle", "Blankets", "Charging Point", "Reading Light", "Track My Bus", "Emergency Contact"}

// BusMock imitates the bus auto-suggest and bus search APIs.
type BusMock struct {
	upstream
}

// NewBusMock creates a new BusMock with 200-800ms latency and a 15% failure rate.
func NewBusMock(logger *zap.Logger) *BusMock {
	return &BusMock{upstream{
		minLatency:  200 * time.Millisecond,
		maxLatency:  800 * time.Millisecond,
		failureRate: 0.15,
		encoding:    "br",
		logger:      logger,
	}}
}

// Register mounts the mock endpoints.
func (m *BusMock) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /suggest", m.suggest)
	mux.HandleFunc("POST /search", m.search)
}

func (m *BusMock) suggest(w http.ResponseWriter, r *http.Request) {
	docs := []busDocument{}
	for _, p := range lookup(r.URL.Query().Get("query")) {
		docs = append(docs, busDocument{
			ID:          p.BusID,
			Name:        p.City,
			DisplayName: fmt.Sprintf("%s, %s", p.City, p.State),
			Region:      p.State,
		})
	}
	m.respond(w, r, map[string]any{"data": map[string]any{"documents": docs}})
}

func (m *BusMock) search(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	if r.PostForm.Get("src_vid") == "" || r.PostForm.Get("dest_vid") == "" || r.PostForm.Get("doj") == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	groups := make([]busGroup, 0, 8)
	for i := range 3 + rand.IntN(6) {
		departs := rand.IntN(24*60/15) * 15
		duration := 4*60 + rand.IntN(14*60)

		var fare busFare
		switch rand.IntN(4) {
		case 0:
			fare.PerPerson = float64(600 + rand.IntN(1800))
		case 1:
			// no fare: the client estimates one
		default:
			fare.Total = float64(500 + rand.IntN(2500))
		}

		groups = append(groups, busGroup{
			Fare: fare,
			Departures: []busDeparture{{
				BusID:     fmt.Sprintf("B%05d", rand.IntN(100000)),
				DepartsAt: clock(departs),
				ArrivesAt: clock(departs + duration),
				Duration:  fmt.Sprintf("%dh %02dm", duration/60, duration%60),
				SeatsLeft: rand.IntN(30),
				Operator:  busOperators[i%len(busOperators)],
			}},
		})
	}

	amenities := make([]busAmenity, 0, len(busAmenities))
	for _, a := range busAmenities {
		amenities = append(amenities, busAmenity{Name: a})
	}

	m.respond(w, r, map[string]any{"buses": groups, "avail_amen": amenities})
}
