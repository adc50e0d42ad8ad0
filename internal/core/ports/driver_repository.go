package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverRepository is the persistence contract of the driver directory.
type DriverRepository interface {
	// Add registers a driver. The account id must not be bound to another driver.
	Add(ctx context.Context, aggregate *driver.Driver) error

	// Update persists every field of a driver read with GetForUpdate.
	Update(ctx context.Context, aggregate *driver.Driver) error

	// UpdateLocation persists only the location fields so that a ping never
	// overwrites availability written by a concurrent claim.
	UpdateLocation(ctx context.Context, aggregate *driver.Driver) error

	// Occupy flips the driver unavailable on the condition that the stored row
	// is still available. Returns driver.ErrDriverUnavailable otherwise.
	Occupy(ctx context.Context, aggregate *driver.Driver) error

	// EndShift sets active = false on the condition that the stored row is
	// still on shift and silent since before; other columns are untouched.
	EndShift(ctx context.Context, aggregate *driver.Driver, before time.Time) (bool, error)

	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)
	GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error)
	GetByAccountID(ctx context.Context, accountID string) (*driver.Driver, error)

	// ListCandidates returns available, verified, on-shift drivers with a known
	// location inside box. Callers apply the exact great-circle radius.
	ListCandidates(ctx context.Context, box kernel.BoundingBox) ([]*driver.Driver, error)

	// ListStaleActive returns on-shift drivers whose last location update is
	// older than before, or who never sent one.
	ListStaleActive(ctx context.Context, before time.Time) ([]*driver.Driver, error)
}
