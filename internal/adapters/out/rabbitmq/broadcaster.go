// Package rabbitmq publishes live tracking updates to a topic exchange and
// relays them back into the local WebSocket hub of every service instance.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/ports"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "dispatch.tracking"
	publishTimeout  = 3 * time.Second
	reconnInterval  = 5 * time.Second
)

var ErrNotConnected = errors.New("amqp connection closed")

// Message is one update received from the exchange.
type Message struct {
	RoutingKey string
	Body       []byte
}

type ConsumeOptions struct {
	// Queue is the queue name. Empty asks the broker for an exclusive,
	// auto-deleted queue private to this connection.
	Queue    string
	Durable  bool
	Prefetch int
}

type Broadcaster struct {
	ctx      context.Context
	url      string
	exchange string
	logger   *slog.Logger

	mu           sync.Mutex
	conn         *amqp.Connection
	ch           *amqp.Channel
	reconnecting bool
	closed       bool
}

var _ ports.Broadcaster = (*Broadcaster)(nil)

// NewBroadcaster dials url and declares the exchange. ctx bounds the
// background reconnect loop.
func NewBroadcaster(ctx context.Context, url, exchange string, logger *slog.Logger) (*Broadcaster, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	b := &Broadcaster{
		ctx:      ctx,
		url:      url,
		exchange: exchange,
		logger:   logger.With("component", "rabbitmq_broadcaster"),
	}
	if err := b.connect(); err != nil {
		return nil, fmt.Errorf("rabbit connect: %w", err)
	}
	return b, nil
}

// Broadcast publishes payload as JSON with topic as routing key.
func (b *Broadcaster) Broadcast(ctx context.Context, topic string, payload any) error {
	ch, err := b.channel()
	if err != nil {
		if !b.isClosed() {
			go b.reconnect()
		}
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	pubctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	return ch.PublishWithContext(pubctx, b.exchange, topic, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        body,
	})
}

// Consume binds a queue to the exchange with bindingKey and streams its
// messages until ctx is done or the channel closes. Messages are auto-acked.
func (b *Broadcaster) Consume(ctx context.Context, bindingKey string, opts ConsumeOptions) (<-chan Message, error) {
	ch, err := b.channel()
	if err != nil {
		return nil, err
	}

	exclusive := opts.Queue == ""
	q, err := ch.QueueDeclare(
		opts.Queue,
		opts.Durable,
		exclusive, // auto-delete
		exclusive, // exclusive
		false,     // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("queue declare: %w", err)
	}

	if err := ch.QueueBind(q.Name, bindingKey, b.exchange, false, nil); err != nil {
		return nil, fmt.Errorf("queue bind: %w", err)
	}

	if opts.Prefetch > 0 {
		if err := ch.Qos(opts.Prefetch, 0, false); err != nil {
			return nil, fmt.Errorf("qos: %w", err)
		}
	}

	deliveries, err := ch.Consume(q.Name, "", true, exclusive, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consume: %w", err)
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				select {
				case out <- Message{RoutingKey: d.RoutingKey, Body: d.Body}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func (b *Broadcaster) IsAlive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.aliveLocked()
}

// Close releases the connection. A closed broadcaster does not reconnect.
func (b *Broadcaster) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true

	if b.ch != nil && !b.ch.IsClosed() {
		if err := b.ch.Close(); err != nil {
			return fmt.Errorf("close channel: %w", err)
		}
	}
	if b.conn != nil && !b.conn.IsClosed() {
		if err := b.conn.Close(); err != nil {
			return fmt.Errorf("close connection: %w", err)
		}
	}
	return nil
}

func (b *Broadcaster) isClosed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.closed
}

func (b *Broadcaster) aliveLocked() bool {
	return b.conn != nil && !b.conn.IsClosed() && b.ch != nil && !b.ch.IsClosed()
}

func (b *Broadcaster) channel() (*amqp.Channel, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.aliveLocked() {
		return nil, ErrNotConnected
	}
	return b.ch, nil
}

func (b *Broadcaster) connect() error {
	conn, err := amqp.Dial(b.url)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}
	if err := ch.ExchangeDeclare(b.exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}

	b.mu.Lock()
	b.conn = conn
	b.ch = ch
	b.mu.Unlock()
	return nil
}

func (b *Broadcaster) reconnect() {
	b.mu.Lock()
	if b.reconnecting {
		b.mu.Unlock()
		return
	}
	b.reconnecting = true
	b.mu.Unlock()

	defer func() {
		b.mu.Lock()
		b.reconnecting = false
		b.mu.Unlock()
	}()

	t := time.NewTicker(reconnInterval)
	defer t.Stop()

	b.logger.Warn("amqp connection lost, reconnecting")
	for {
		select {
		case <-b.ctx.Done():
			return
		case <-t.C:
			if b.isClosed() {
				return
			}
			if err := b.connect(); err != nil {
				b.logger.Warn("reconnect failed", "error", err)
				continue
			}
			b.logger.Info("reconnected")
			return
		}
	}
}
