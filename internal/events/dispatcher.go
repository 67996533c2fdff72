package events

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Sink names accepted by NewPublisher.
const (
	SinkLog   = "log"
	SinkRedis = "redis"
	SinkKafka = "kafka"
)

// Config selects and configures the event sink.
type Config struct {
	Sink          string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Stream        string
	StreamMaxLen  int64
	KafkaBrokers  []string
	KafkaTopic    string
}

// NewPublisher builds the Publisher named by cfg.Sink.
func NewPublisher(cfg Config, logger *zap.Logger) (Publisher, error) {
	switch strings.ToLower(cfg.Sink) {
	case "", SinkLog:
		return NewLogPublisher(logger), nil
	case SinkRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedisPublisher(client, cfg.Stream, cfg.StreamMaxLen), nil
	case SinkKafka:
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return nil, fmt.Errorf("unknown events sink %q", cfg.Sink)
	}
}

// Dispatcher publishes events off the request path through a bounded queue.
// When the queue is full new events are dropped.
type Dispatcher struct {
	publisher Publisher
	queue     chan Event
	timeout   time.Duration
	logger    *zap.Logger
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewDispatcher starts a Dispatcher with one publishing worker.
func NewDispatcher(publisher Publisher, size int, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		publisher: publisher,
		queue:     make(chan Event, size),
		timeout:   timeout,
		logger:    logger,
	}
	d.wg.Go(d.run)
	return d
}

// Dispatch queues e without blocking and reports whether it was accepted.
func (d *Dispatcher) Dispatch(e Event) bool {
	select {
	case d.queue <- e:
		return true
	default:
		d.logger.Warn("analytics queue full, dropping event",
			zap.String("event_id", e.ID),
			zap.String("event_type", e.Type))
		return false
	}
}

func (d *Dispatcher) run() {
	for e := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.publisher.Publish(ctx, e); err != nil {
			d.logger.Warn("failed to publish analytics event",
				zap.String("event_id", e.ID),
				zap.String("event_type", e.Type),
				zap.Error(err))
		}
		cancel()
	}
}

// Close drains queued events, stops the worker and closes the publisher.
// Dispatch must not be called after Close.
func (d *Dispatcher) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.queue)
		d.wg.Wait()
		err = d.publisher.Close()
	})
	return err
}
