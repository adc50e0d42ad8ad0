// Package tracking holds the append-only history of the dispatch domain:
// raw location samples sent by drivers and lifecycle events of deliveries.
package tracking

import (
	"fmt"
	"math"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Actor identifies who caused a tracking event.
type Actor string

const (
	ActorDriver   Actor = "driver"
	ActorAdmin    Actor = "admin"
	ActorSystem   Actor = "system"
	ActorCustomer Actor = "customer"
)

// ParseActor validates user supplied actor names.
func ParseActor(s string) (Actor, error) {
	switch a := Actor(strings.ToLower(strings.TrimSpace(s))); a {
	case ActorDriver, ActorAdmin, ActorSystem, ActorCustomer:
		return a, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("actor", fmt.Errorf("%q is not a known actor", s))
	}
}

// Telemetry is the optional part of a location ping.
type Telemetry struct {
	AccuracyMeters *float64
	HeadingDegrees *float64
	SpeedKmh       *float64
	AltitudeMeters *float64
}

// Validate rejects physically impossible values. NaN and infinities are never accepted.
func (t Telemetry) Validate() error {
	if t.AccuracyMeters != nil && (!isFinite(*t.AccuracyMeters) || *t.AccuracyMeters < 0) {
		return errs.NewValueIsOutOfRangeError("accuracy", *t.AccuracyMeters, 0, math.MaxFloat64)
	}
	if t.HeadingDegrees != nil && (!isFinite(*t.HeadingDegrees) || *t.HeadingDegrees < 0 || *t.HeadingDegrees >= 360) {
		return errs.NewValueIsOutOfRangeError("heading", *t.HeadingDegrees, 0, 360)
	}
	if t.SpeedKmh != nil && (!isFinite(*t.SpeedKmh) || *t.SpeedKmh < 0) {
		return errs.NewValueIsOutOfRangeError("speed", *t.SpeedKmh, 0, math.MaxFloat64)
	}
	if t.AltitudeMeters != nil && !isFinite(*t.AltitudeMeters) {
		return errs.NewValueIsOutOfRangeError("altitude", *t.AltitudeMeters, -math.MaxFloat64, math.MaxFloat64)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// LocationSample is one ping as received from a driver. Samples are never updated.
type LocationSample struct {
	ID         kernel.UUID
	DriverID   kernel.UUID
	DeliveryID *kernel.UUID
	Location   kernel.Location
	Telemetry  Telemetry
	CapturedAt time.Time
	RecordedAt time.Time
}

// NewLocationSample validates a ping. A zero capturedAt means "now".
func NewLocationSample(
	driverID kernel.UUID,
	deliveryID *kernel.UUID,
	loc kernel.Location,
	telemetry Telemetry,
	capturedAt, now time.Time,
) (LocationSample, error) {
	if err := driverID.Validate(); err != nil {
		return LocationSample{}, err
	}
	if err := loc.Validate(); err != nil {
		return LocationSample{}, err
	}
	if err := telemetry.Validate(); err != nil {
		return LocationSample{}, err
	}
	if capturedAt.IsZero() || capturedAt.After(now) {
		capturedAt = now
	}

	return LocationSample{
		ID:         kernel.NewUUID(),
		DriverID:   driverID,
		DeliveryID: deliveryID,
		Location:   loc,
		Telemetry:  telemetry,
		CapturedAt: capturedAt.UTC(),
		RecordedAt: now.UTC(),
	}, nil
}

// Event is one entry of a delivery's history. The most recent event reflects
// the current tracking state.
type Event struct {
	ID         kernel.UUID
	DeliveryID kernel.UUID
	Status     delivery.Status
	Location   *kernel.Location
	Note       string
	Actor      Actor
	CreatedAt  time.Time
}

// NewEvent builds a history entry for the delivery's current status.
func NewEvent(
	deliveryID kernel.UUID,
	status delivery.Status,
	loc *kernel.Location,
	note string,
	actor Actor,
	now time.Time,
) (Event, error) {
	if err := deliveryID.Validate(); err != nil {
		return Event{}, err
	}
	if err := status.Validate(); err != nil {
		return Event{}, err
	}
	if _, err := ParseActor(string(actor)); err != nil {
		return Event{}, err
	}

	return Event{
		ID:         kernel.NewUUID(),
		DeliveryID: deliveryID,
		Status:     status,
		Location:   loc,
		Note:       strings.TrimSpace(note),
		Actor:      actor,
		CreatedAt:  now.UTC(),
	}, nil
}
