// Package ports defines the contracts between the dispatch core and its
// infrastructure: repositories, the unit of work and outbound collaborators.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
)

// DeliveryRepository is the persistence contract for delivery aggregates.
//
// Claim and Reassign are the only conditional writes of the lifecycle: they
// are compare-and-swap updates checked by affected row count, never
// read-then-write sequences.
type DeliveryRepository interface {
	// Add persists a new delivery.
	// Returns delivery.ErrTrackingNumberTaken when the tracking number collides.
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// Update persists a delivery read with GetForUpdate in the same transaction.
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// Claim writes an in-memory claimed delivery, conditioned on the stored row
	// still being pending with no driver.
	//
	// Returns:
	//   - errs.ErrObjectNotFound if the delivery does not exist
	//   - delivery.ErrAlreadyClaimed if another dispatcher won the race
	//
	// Example:
	//   if err := d.Claim(driverID, now); err != nil {
	//       return err
	//   }
	//   if err := repo.Claim(ctx, d); errors.Is(err, delivery.ErrAlreadyClaimed) {
	//       // try the next alternative
	//   }
	Claim(ctx context.Context, aggregate *delivery.Delivery) error

	// Reassign writes a declined delivery, conditioned on the stored row still
	// being assigned to previousDriverID. Used to release one driver and claim
	// the next in a single statement.
	Reassign(ctx context.Context, aggregate *delivery.Delivery, previousDriverID kernel.UUID) error

	// Get retrieves a delivery by id without locking.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetForUpdate retrieves a delivery and locks its row until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetByTrackingNumber retrieves a delivery by its public tracking number.
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*delivery.Delivery, error)

	// GetActiveByDriver returns the non-terminal delivery bound to driverID,
	// locked for update, or errs.ErrObjectNotFound when the driver is idle.
	GetActiveByDriver(ctx context.Context, driverID kernel.UUID) (*delivery.Delivery, error)

	// ListPending returns up to limit unassigned deliveries, oldest first.
	ListPending(ctx context.Context, limit int) ([]*delivery.Delivery, error)
}
