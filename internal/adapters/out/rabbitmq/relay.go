package rabbitmq

import (
	"context"
	"log/slog"
	"time"
)

// Sink receives relayed updates, typically the WebSocket hub.
type Sink interface {
	Deliver(topic string, body []byte)
}

// Relay forwards every message matching bindingKey to sink until ctx is done,
// resubscribing after the connection drops. Each instance binds its own
// exclusive queue so all instances see every update.
type Relay struct {
	broadcaster *Broadcaster
	bindingKey  string
	sink        Sink
	logger      *slog.Logger
	retry       time.Duration
}

func NewRelay(b *Broadcaster, bindingKey string, sink Sink, logger *slog.Logger) *Relay {
	return &Relay{
		broadcaster: b,
		bindingKey:  bindingKey,
		sink:        sink,
		logger:      logger.With("component", "tracking_relay"),
		retry:       reconnInterval,
	}
}

// Run blocks until ctx is done.
func (r *Relay) Run(ctx context.Context) {
	for {
		messages, err := r.broadcaster.Consume(ctx, r.bindingKey, ConsumeOptions{Prefetch: 64})
		if err != nil {
			r.logger.Warn("subscribe failed", "binding_key", r.bindingKey, "error", err)
		} else {
			r.logger.Info("relaying tracking updates", "binding_key", r.bindingKey)
			for m := range messages {
				r.sink.Deliver(m.RoutingKey, m.Body)
			}
		}

		select {
		case <-ctx.Done():
			r.logger.Info("tracking relay stopped")
			return
		case <-time.After(r.retry):
		}
	}
}
