package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/guard"
)

var ErrIngestLocationCommandIsNotConstructed = errors.New(
	"IngestLocationCommand must be created via NewIngestLocationCommand constructor",
)

// IngestLocationCommand is one location ping of a driver.
type IngestLocationCommand struct {
	driverID   kernel.UUID
	location   kernel.Location
	telemetry  tracking.Telemetry
	capturedAt time.Time

	guard guard.ConstructorGuard
}

// NewIngestLocationCommand validates coordinates and telemetry. A zero
// capturedAt means the ping was taken on arrival.
func NewIngestLocationCommand(
	driverID kernel.UUID,
	location kernel.Location,
	telemetry tracking.Telemetry,
	capturedAt time.Time,
) (IngestLocationCommand, error) {
	if err := errors.Join(driverID.Validate(), location.Validate(), telemetry.Validate()); err != nil {
		return IngestLocationCommand{}, err
	}

	return IngestLocationCommand{
		driverID:   driverID,
		location:   location,
		telemetry:  telemetry,
		capturedAt: capturedAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c IngestLocationCommand) Validate() error {
	return c.guard.Validate(ErrIngestLocationCommandIsNotConstructed)
}

func (c IngestLocationCommand) DriverID() kernel.UUID         { return c.driverID }
func (c IngestLocationCommand) Location() kernel.Location     { return c.location }
func (c IngestLocationCommand) Telemetry() tracking.Telemetry { return c.telemetry }
func (c IngestLocationCommand) CapturedAt() time.Time         { return c.capturedAt }
