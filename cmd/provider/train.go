package main

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type trainStation struct {
	DisplayName string `json:"e"`
	Name        string `json:"name"`
	ShortCode   string `json:"a"`
	Code        string `json:"code"`
}

type trainEnquiry struct {
	SrcStn    string `json:"srcStn"`
	DestStn   string `json:"destStn"`
	JrnyClass string `json:"jrnyClass"`
	JrnyDate  string `json:"jrnyDate"`
}

type trainRow struct {
	TrainNumber   string   `json:"trainNumber"`
	TrainName     string   `json:"trainName"`
	DepartureTime string   `json:"departureTime"`
	ArrivalTime   string   `json:"arrivalTime"`
	Duration      string   `json:"duration"`
	Classes       []string `json:"avlClasses"`
}

var trainNames = []string{"Rajdhani Express", "Duronto Express", "Garib Rath", "Superfast Express", "Mail"}

var trainClasses = []string{"2S", "SL", "3E", "CC", "3A", "2A", "1A"}

// TrainMock imitates the station suggestion and between-stations enquiry APIs.
type TrainMock struct {
	upstream
}

// NewTrainMock creates a new TrainMock with 100-400ms latency and a 10% failure rate.
func NewTrainMock(logger *zap.Logger) *TrainMock {
	return &TrainMock{upstream{
		minLatency:  100 * time.Millisecond,
		maxLatency:  400 * time.Millisecond,
		failureRate: 0.1,
		encoding:    "gzip",
		logger:      logger,
	}}
}

// Register mounts the mock endpoints.
func (m *TrainMock) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /suggest", m.suggest)
	mux.HandleFunc("POST /fares", m.fares)
}

func (m *TrainMock) suggest(w http.ResponseWriter, r *http.Request) {
	stations := []trainStation{}
	for _, p := range lookup(r.URL.Query().Get("value")) {
		if p.StationCode == "" {
			continue
		}
		stations = append(stations, trainStation{
			DisplayName: fmt.Sprintf("%s (%s)", p.Station, p.StationCode),
			Name:        p.Station,
			ShortCode:   p.StationCode,
			Code:        p.StationCode,
		})
	}
	m.respond(w, r, stations)
}

func (m *TrainMock) fares(w http.ResponseWriter, r *http.Request) {
	var enquiry trainEnquiry
	if err := json.NewDecoder(r.Body).Decode(&enquiry); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if enquiry.SrcStn == "" || enquiry.DestStn == "" || enquiry.JrnyDate == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}

	rows := make([]trainRow, 0, 5)
	for i := range 2 + rand.IntN(4) {
		departs := rand.IntN(24*60/5) * 5
		duration := 6*60 + rand.IntN(18*60)
		rows = append(rows, trainRow{
			TrainNumber:   fmt.Sprintf("12%03d", 100+i*37+rand.IntN(30)),
			TrainName:     trainNames[i%len(trainNames)],
			DepartureTime: clock(departs),
			ArrivalTime:   clock(departs + duration),
			Duration:      fmt.Sprintf("%02d:%02d", duration/60, duration%60),
			Classes:       sampleClasses(enquiry.JrnyClass),
		})
	}

	m.respond(w, r, map[string]any{"trainBtwnStnsList": rows})
}

// sampleClasses offers a random set of classes, usually including want.
func sampleClasses(want string) []string {
	var out []string
	for _, c := range trainClasses {
		if (c == want && rand.Float64() < 0.8) || rand.Float64() < 0.4 {
			out = append(out, c)
		}
	}
	return out
}

func clock(minutes int) string {
	minutes %= 24 * 60
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
