package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/alex-user-go/travelsearch/internal/config"
	"github.com/alex-user-go/travelsearch/internal/events"
	"github.com/alex-user-go/travelsearch/internal/handler"
	"github.com/alex-user-go/travelsearch/internal/obs"
	"github.com/alex-user-go/travelsearch/internal/providers"
	"github.com/alex-user-go/travelsearch/internal/providers/bus"
	"github.com/alex-user-go/travelsearch/internal/providers/flight"
	"github.com/alex-user-go/travelsearch/internal/providers/pricing"
	"github.com/alex-user-go/travelsearch/internal/providers/train"
	"github.com/alex-user-go/travelsearch/internal/search"
	"github.com/alex-user-go/travelsearch/internal/search/collapse"
	"github.com/alex-user-go/travelsearch/internal/search/ratelimit"
)

const serviceName = "travelsearch"

// Run initializes and runs the application.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger, err := obs.NewLogger(serviceName, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	cfg.LogConfiguration(logger)

	metrics := obs.NewMetrics(logger)

	// Upstream adapters, one per transport mode
	trainClient := train.New(train.Config{
		SuggestURL:      cfg.TrainSuggestURL,
		FareURL:         cfg.TrainFareURL,
		APIKey:          cfg.UpstreamAPIKey,
		DeviceID:        cfg.UpstreamDeviceID,
		LocationTimeout: cfg.LocationTimeout,
		PriceTimeout:    cfg.PriceTimeout,
		Estimator:       pricing.Random{},
	})
	busClient := bus.New(bus.Config{
		SuggestURL:      cfg.BusSuggestURL,
		SearchURL:       cfg.BusSearchURL,
		DeviceID:        cfg.BusDeviceID,
		PreferredRegion: cfg.BusPreferredRegion,
		Overrides:       cfg.BusOverrides,
		LocationTimeout: cfg.LocationTimeout,
		PriceTimeout:    cfg.PriceTimeout,
		Estimator:       pricing.Random{},
	})
	flightClient := flight.New(flight.Config{
		SuggestURL:      cfg.FlightSuggestURL,
		FareURL:         cfg.FlightFareURL,
		APIKey:          cfg.UpstreamAPIKey,
		DeviceID:        cfg.UpstreamDeviceID,
		LocationTimeout: cfg.LocationTimeout,
		PriceTimeout:    cfg.PriceTimeout,
	})

	resolver := search.NewResolver(
		[]providers.LocationSource{trainClient, busClient, flightClient},
		metrics,
		logger,
	)
	engine := search.NewEngine(
		resolver,
		[]providers.PriceSource{trainClient, busClient, flightClient},
		cfg.SearchTimeout,
		metrics,
		logger,
	)

	var group *collapse.Group
	if cfg.CollapseSearches {
		group = collapse.New()
	}

	limiter := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow)
	defer limiter.Close()

	publisher, err := events.NewPublisher(cfg.Events(), logger)
	if err != nil {
		return fmt.Errorf("failed to create events publisher: %w", err)
	}
	dispatcher := events.NewDispatcher(publisher, cfg.EventsQueueSize, cfg.EventsPublishTimeout, logger)
	defer func() {
		if err := dispatcher.Close(); err != nil {
			logger.Error("events publisher close error", zap.Error(err))
		}
	}()

	h := handler.New(
		engine,
		search.NewValidator(cfg.MaxDaysAhead, nil),
		search.NewStatusProbe(resolver),
		group,
		dispatcher,
		metrics,
		logger,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.NewRouter(h, limiter, metrics, logger),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
		return err
	}

	logger.Info("server stopped")
	return nil
}
