package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/ddd"
)

// ErrThrottled is returned when a driver sends pings faster than allowed.
var ErrThrottled = errors.New("location ping throttled")

// EventPublisher receives domain events after their transaction committed.
// Implementations must not block the caller on slow subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...ddd.DomainEvent)
}

// Broadcaster pushes real-time updates to subscribers of a topic,
// such as everyone watching one tracking number. Best effort.
type Broadcaster interface {
	Broadcast(ctx context.Context, topic string, payload any) error
}

// Notification is a message for one recipient.
type Notification struct {
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// NotificationSender delivers notifications. The core never depends on the result.
type NotificationSender interface {
	SendNotification(ctx context.Context, recipientID string, notification Notification) error
}

// PingLimiter caps how often a single driver may report a location.
type PingLimiter interface {
	// Allow reports whether a ping from driverID may be processed now.
	Allow(ctx context.Context, driverID kernel.UUID) (bool, error)
}
