package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/alex-user-go/travelsearch/internal/obs"
)

var errProviderUnavailable = errors.New("provider unavailable")

var defaultPorts = map[string]string{
	"train":  "9001",
	"bus":    "9002",
	"flight": "9003",
}

func main() {
	providerType := getEnv("PROVIDER_TYPE", "train")
	port := getEnv("PORT", defaultPorts[providerType])

	logger, err := obs.NewLogger("mock-"+providerType, getEnv("LOG_LEVEL", "info"))
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	mux := http.NewServeMux()
	switch providerType {
	case "train":
		NewTrainMock(logger).Register(mux)
	case "bus":
		NewBusMock(logger).Register(mux)
	case "flight":
		NewFlightMock(logger).Register(mux)
	default:
		logger.Error("unknown provider type", zap.String("type", providerType))
		os.Exit(1)
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write healthz response", zap.Error(err))
		}
	})

	addr := ":" + port
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("type", providerType), zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
