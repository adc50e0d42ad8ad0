package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
)

// TrackingRepository stores the append-only history. It has no update or delete.
type TrackingRepository interface {
	AddSample(ctx context.Context, sample tracking.LocationSample) error
	AddEvent(ctx context.Context, event tracking.Event) error
	// ListEvents returns the history of a delivery in chronological order.
	ListEvents(ctx context.Context, deliveryID kernel.UUID) ([]tracking.Event, error)
}
