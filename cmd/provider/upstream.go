package main

import (
	"context"
	"encoding/json"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"go.uber.org/zap"
)

// upstream simulates an unreliable third-party API: every call waits a random
// latency and fails at the configured rate.
type upstream struct {
	minLatency  time.Duration
	maxLatency  time.Duration
	failureRate float64
	encoding    string // preferred Content-Encoding when the client accepts it
	logger      *zap.Logger
}

func (u *upstream) simulate(ctx context.Context) error {
	latency := u.minLatency
	if spread := u.maxLatency - u.minLatency; spread > 0 {
		latency += rand.N(spread)
	}

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return context.Cause(ctx)
	}

	if rand.Float64() < u.failureRate {
		return errProviderUnavailable
	}
	return nil
}

// respond writes v as JSON, compressed with u.encoding when the client accepts it.
func (u *upstream) respond(w http.ResponseWriter, r *http.Request, v any) {
	if err := u.simulate(r.Context()); err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	var out io.Writer = w
	var closer io.Closer
	if u.encoding != "" && strings.Contains(r.Header.Get("Accept-Encoding"), u.encoding) {
		enc, err := u.compressor(w)
		if err != nil {
			u.logger.Error("failed to create compressor", zap.String("encoding", u.encoding), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Encoding", u.encoding)
		out, closer = enc, enc
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(out).Encode(v); err != nil {
		u.logger.Error("failed to encode response", zap.Error(err))
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			u.logger.Error("failed to flush compressed response", zap.Error(err))
		}
	}
}

func (u *upstream) compressor(w io.Writer) (io.WriteCloser, error) {
	switch u.encoding {
	case "gzip":
		return gzip.NewWriter(w), nil
	case "br":
		return brotli.NewWriter(w), nil
	case "zstd":
		return zstd.NewWriter(w)
	default:
		return nopCloser{w}, nil
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

// place is one city known to the mock upstreams. Empty codes mean the mode
// does not serve the city.
type place struct {
	City        string
	State       string
	Station     string
	StationCode string
	Airport     string
	AirportCode string
	BusID       string
}

var places = []place{
	{City: "Mumbai", State: "Maharashtra", Station: "Mumbai CSMT", StationCode: "CSMT", Airport: "Chhatrapati Shivaji Maharaj International Airport", AirportCode: "BOM", BusID: "1000"},
	{City: "Delhi", State: "Delhi", Station: "New Delhi", StationCode: "NDLS", Airport: "Indira Gandhi International Airport", AirportCode: "DEL", BusID: "1001"},
	{City: "Pune", State: "Maharashtra", Station: "Pune Jn", StationCode: "PUNE", Airport: "Pune Airport", AirportCode: "PNQ", BusID: "1002"},
	{City: "Bengaluru", State: "Karnataka", Station: "KSR Bengaluru", StationCode: "SBC", Airport: "Kempegowda International Airport", AirportCode: "BLR", BusID: "1003"},
	{City: "Goa", State: "Goa", Station: "Madgaon", StationCode: "MAO", Airport: "Dabolim Airport", AirportCode: "GOI", BusID: "1004"},
	{City: "Lonavala", State: "Maharashtra", Station: "Lonavala", StationCode: "LNL", BusID: "1005"},
	{City: "Ashta", State: "Madhya Pradesh", BusID: "1006"},
	{City: "Ashta, Sangli", State: "Maharashtra", BusID: "1007"},
}

// lookup returns the places whose city contains query, case-insensitively.
func lookup(query string) []place {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var out []place
	for _, p := range places {
		if strings.Contains(strings.ToLower(p.City), query) {
			out = append(out, p)
		}
	}
	return out
}
