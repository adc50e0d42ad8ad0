// Package eventbus fans domain events out to subscribers on a fixed pool of
// goroutines. Publish never blocks: when the queue is full the event is
// dropped and logged. Subscriber errors are logged and otherwise ignored.
package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/pkg/ddd"
)

var ErrBusClosed = errors.New("event bus is closed")

// Handler reacts to one domain event.
type Handler interface {
	Handle(ctx context.Context, event ddd.DomainEvent) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, event ddd.DomainEvent) error

func (f HandlerFunc) Handle(ctx context.Context, event ddd.DomainEvent) error {
	return f(ctx, event)
}

type Options struct {
	Workers        int
	QueueSize      int
	HandlerTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{Workers: 4, QueueSize: 1024, HandlerTimeout: 5 * time.Second}
}

type Bus struct {
	opts   Options
	logger *slog.Logger

	mu       sync.RWMutex
	handlers map[string][]Handler
	queue    chan ddd.DomainEvent
	closed   bool
	started  bool
	wg       sync.WaitGroup
}

func New(opts Options, logger *slog.Logger) *Bus {
	def := DefaultOptions()
	if opts.Workers <= 0 {
		opts.Workers = def.Workers
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = def.QueueSize
	}
	if opts.HandlerTimeout <= 0 {
		opts.HandlerTimeout = def.HandlerTimeout
	}
	return &Bus{
		opts:     opts,
		logger:   logger.With("component", "event_bus"),
		handlers: make(map[string][]Handler),
		queue:    make(chan ddd.DomainEvent, opts.QueueSize),
	}
}

// Subscribe registers h for every event with the given name.
func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[name] = append(b.handlers[name], h)
}

// Start launches the workers. Calling it again is a no-op.
func (b *Bus) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started || b.closed {
		return
	}
	b.started = true

	for i := 0; i < b.opts.Workers; i++ {
		b.wg.Add(1)
		go b.work()
	}
	b.logger.Info("event bus started", "workers", b.opts.Workers, "queue_size", b.opts.QueueSize)
}

// Publish enqueues events. It implements ports.EventPublisher.
func (b *Bus) Publish(ctx context.Context, events ...ddd.DomainEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, event := range events {
		if event == nil {
			continue
		}
		if b.closed {
			b.logger.WarnContext(ctx, "event dropped", "event", event.EventName(), "error", ErrBusClosed)
			continue
		}
		select {
		case b.queue <- event:
		default:
			b.logger.WarnContext(ctx, "event queue full, event dropped",
				"event", event.EventName(), "event_id", event.EventID())
		}
	}
}

// Close stops accepting events and waits for queued ones to be handled or for
// ctx to expire.
func (b *Bus) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.queue)
	started := b.started
	b.mu.Unlock()

	if !started {
		return nil
	}

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.logger.Info("event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *Bus) work() {
	defer b.wg.Done()
	for event := range b.queue {
		b.dispatch(event)
	}
}

func (b *Bus) dispatch(event ddd.DomainEvent) {
	b.mu.RLock()
	handlers := b.handlers[event.EventName()]
	b.mu.RUnlock()

	for _, h := range handlers {
		b.invoke(h, event)
	}
}

func (b *Bus) invoke(h Handler, event ddd.DomainEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), b.opts.HandlerTimeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			b.logger.ErrorContext(ctx, "event handler panicked",
				"event", event.EventName(), "event_id", event.EventID(), "panic", r)
		}
	}()

	if err := h.Handle(ctx, event); err != nil {
		b.logger.ErrorContext(ctx, "event handler failed",
			"event", event.EventName(), "event_id", event.EventID(), "error", err)
	}
}
