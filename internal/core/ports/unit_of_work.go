package ports

import (
	"context"
)

// UnitOfWorkFactory creates a UnitOfWork per command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Domain events of aggregates
// written through its repositories are published only after Commit succeeds.
type UnitOfWork interface {
	// Begin starts a transaction. Calling it twice is a no-op.
	Begin(ctx context.Context) error

	// Commit commits the transaction and then hands the collected domain events
	// to the EventPublisher. Publishing failures do not fail the commit.
	Commit(ctx context.Context) error

	// Rollback discards the transaction and the collected events.
	Rollback(ctx context.Context) error

	DeliveryRepository() DeliveryRepository
	DriverRepository() DriverRepository
	TrackingRepository() TrackingRepository
}
