package delivery

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/ddd"
	"dispatch/internal/pkg/errs"
)

const (
	// MinRating and MaxRating bound the customer rating.
	MinRating = 1
	MaxRating = 5

	trackingNumberLength = len(TrackingPrefix) + trackingClockDigits + trackingRandomChars
)

// Snapshot is the complete state of a Delivery. Persistence adapters map it to
// and from storage; nothing else should construct one.
type Snapshot struct {
	ID             kernel.UUID
	TrackingNumber string
	Status         Status

	OrderRef      string
	RestaurantRef string
	CustomerRef   string

	Pickup         kernel.Location
	PickupAddress  string
	Dropoff        kernel.Location
	DropoffAddress string

	DriverID          *kernel.UUID
	LastDriverID      *kernel.UUID
	DeclinedDriverIDs []kernel.UUID

	Fee                 float64
	EstimatedDistanceKm float64
	ActualDistanceKm    *float64
	Codes               Codes

	CreatedAt   time.Time
	UpdatedAt   time.Time
	AssignedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time

	ActualPickupLocation   *kernel.Location
	ActualDeliveryLocation *kernel.Location
	DurationMinutes        *int

	LastKnownLocation     *kernel.Location
	LastTrackedAt         *time.Time
	EstimatedDeliveryTime *time.Time

	CustomerRating     *int
	CustomerFeedback   string
	CancellationReason string
}

// NewParams carries what NewDelivery needs. The tracking number and codes are
// produced by NewTrackingNumber and NewCodes so that callers can retry on a
// tracking number collision.
type NewParams struct {
	ID             kernel.UUID
	TrackingNumber string
	OrderRef       string
	RestaurantRef  string
	CustomerRef    string
	Pickup         kernel.Location
	PickupAddress  string
	Dropoff        kernel.Location
	DropoffAddress string
	Fee            float64
	Codes          Codes
}

// AdvanceMeta is optional context for a transition.
type AdvanceMeta struct {
	// Location is where the transition happened. When nil the last known
	// position is used for pickup and delivery records.
	Location *kernel.Location
	Reason   string
}

// Transition describes the outcome of a lifecycle operation.
type Transition struct {
	From    Status
	To      Status
	Changed bool
	// ReleasedDriverID is set when the transition ended the driver's assignment.
	ReleasedDriverID *kernel.UUID
}

// Completed reports whether the transition delivered the parcel.
func (t Transition) Completed() bool {
	return t.Changed && t.To == Delivered
}

// Delivery is the aggregate root of the dispatch domain.
//
// Delivery follows these invariants:
//   - the driver reference is set iff the status is assigned, picked_up, in_transit or emergency
//   - status changes only through Claim, Advance, Cancel, Decline and ConfirmCode
//   - terminal deliveries are immutable except for a single customer rating
//
// Delivery is not safe for concurrent use. Concurrent writers are serialised by
// storage: claims through a conditional update, everything else under a row lock.
type Delivery struct {
	ddd.AggregateRoot

	state         Snapshot
	isConstructed bool
}

// NewDelivery creates a pending delivery and raises CreatedEvent.
//
// Example:
//
//	tn, _ := delivery.NewTrackingNumber(now)
//	codes, _ := delivery.NewCodes()
//	d, err := delivery.NewDelivery(delivery.NewParams{
//	    ID:             kernel.NewUUID(),
//	    TrackingNumber: tn,
//	    OrderRef:       "order-42",
//	    CustomerRef:    "customer-7",
//	    Pickup:         pickup,
//	    Dropoff:        dropoff,
//	    Fee:            6.5,
//	    Codes:          codes,
//	}, now)
func NewDelivery(p NewParams, now time.Time) (*Delivery, error) {
	now = now.UTC()

	if err := errors.Join(
		p.ID.Validate(),
		validateTrackingNumber(p.TrackingNumber),
		requireText("order reference", p.OrderRef),
		requireText("customer reference", p.CustomerRef),
		p.Pickup.Validate(),
		p.Dropoff.Validate(),
		validateFee(p.Fee),
		validateCodes(p.Codes),
	); err != nil {
		return nil, err
	}

	d := &Delivery{
		state: Snapshot{
			ID:                  p.ID,
			TrackingNumber:      p.TrackingNumber,
			Status:              Pending,
			OrderRef:            strings.TrimSpace(p.OrderRef),
			RestaurantRef:       strings.TrimSpace(p.RestaurantRef),
			CustomerRef:         strings.TrimSpace(p.CustomerRef),
			Pickup:              p.Pickup,
			PickupAddress:       strings.TrimSpace(p.PickupAddress),
			Dropoff:             p.Dropoff,
			DropoffAddress:      strings.TrimSpace(p.DropoffAddress),
			Fee:                 p.Fee,
			EstimatedDistanceKm: p.Pickup.DistanceTo(p.Dropoff),
			Codes:               p.Codes,
			CreatedAt:           now,
			UpdatedAt:           now,
		},
		isConstructed: true,
	}

	d.RaiseDomainEvent(CreatedEvent{
		BaseEvent:      ddd.NewBaseEvent(EventCreated, now),
		DeliveryID:     d.state.ID,
		TrackingNumber: d.state.TrackingNumber,
		CustomerRef:    d.state.CustomerRef,
		Pickup:         d.state.Pickup,
		Dropoff:        d.state.Dropoff,
		Fee:            d.state.Fee,
	})

	return d, nil
}

// Restore rebuilds a delivery from storage. No events are raised.
func Restore(s Snapshot) (*Delivery, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.Status.Validate(),
		s.Pickup.Validate(),
		s.Dropoff.Validate(),
	); err != nil {
		return nil, err
	}
	if err := s.Status.ValidateCanHaveDriver(s.DriverID != nil); err != nil {
		return nil, err
	}

	s.DeclinedDriverIDs = slices.Clone(s.DeclinedDriverIDs)
	return &Delivery{state: s, isConstructed: true}, nil
}

// Validate ensures the delivery was built through NewDelivery or Restore.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (d *Delivery) Snapshot() Snapshot {
	s := d.state
	s.DeclinedDriverIDs = slices.Clone(d.state.DeclinedDriverIDs)
	return s
}

func (d *Delivery) ID() kernel.UUID                     { return d.state.ID }
func (d *Delivery) TrackingNumber() string              { return d.state.TrackingNumber }
func (d *Delivery) Status() Status                      { return d.state.Status }
func (d *Delivery) CustomerRef() string                 { return d.state.CustomerRef }
func (d *Delivery) Pickup() kernel.Location             { return d.state.Pickup }
func (d *Delivery) Dropoff() kernel.Location            { return d.state.Dropoff }
func (d *Delivery) DriverID() *kernel.UUID              { return d.state.DriverID }
func (d *Delivery) LastDriverID() *kernel.UUID          { return d.state.LastDriverID }
func (d *Delivery) Fee() float64                        { return d.state.Fee }
func (d *Delivery) EstimatedDistanceKm() float64        { return d.state.EstimatedDistanceKm }
func (d *Delivery) LastKnownLocation() *kernel.Location { return d.state.LastKnownLocation }
func (d *Delivery) EstimatedDeliveryTime() *time.Time   { return d.state.EstimatedDeliveryTime }
func (d *Delivery) CustomerRating() *int                { return d.state.CustomerRating }

// DeclinedDriverIDs returns the drivers that turned this delivery down.
func (d *Delivery) DeclinedDriverIDs() []kernel.UUID {
	return slices.Clone(d.state.DeclinedDriverIDs)
}

// IsAssignedTo reports whether driverID is the currently bound driver.
func (d *Delivery) IsAssignedTo(driverID kernel.UUID) bool {
	return d.state.DriverID != nil && d.state.DriverID.IsEqual(driverID)
}

// NavigationTargets lists the points a driver still has to reach, in order.
// Before pickup the route goes through the pickup point.
func (d *Delivery) NavigationTargets() []kernel.Location {
	if d.state.Status == Assigned {
		return []kernel.Location{d.state.Pickup, d.state.Dropoff}
	}
	return []kernel.Location{d.state.Dropoff}
}

// Claim binds driverID to a pending, unassigned delivery.
//
// The in-memory check mirrors the conditional update the repository performs;
// only the storage write decides the race between concurrent dispatchers.
//
// Returns:
//   - ErrAlreadyClaimed if the delivery is no longer pending or has a driver
//   - *InvalidStateError if driverID declined this delivery before
func (d *Delivery) Claim(driverID kernel.UUID, now time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if d.state.Status != Pending || d.state.DriverID != nil {
		return ErrAlreadyClaimed
	}
	if d.HasDeclined(driverID) {
		return NewInvalidStateError("claim for a driver who declined", d.state.Status)
	}

	now = now.UTC()
	id := driverID
	d.state.Status = Assigned
	d.state.DriverID = &id
	d.state.LastDriverID = &id
	d.state.AssignedAt = &now
	d.state.UpdatedAt = now

	d.RaiseDomainEvent(AssignedEvent{
		BaseEvent:      ddd.NewBaseEvent(EventAssigned, now),
		DeliveryID:     d.state.ID,
		TrackingNumber: d.state.TrackingNumber,
		CustomerRef:    d.state.CustomerRef,
		DriverID:       id,
	})
	d.raiseStatusChanged(Pending, Assigned, nil, "", now)

	return nil
}

// HasDeclined reports whether driverID is on the declined list.
func (d *Delivery) HasDeclined(driverID kernel.UUID) bool {
	return slices.ContainsFunc(d.state.DeclinedDriverIDs, driverID.IsEqual)
}

// Advance moves the delivery to target.
//
// Advancing to the current status is a no-op success. Assigned is reachable
// only through Claim. Entering a terminal status releases the driver, which is
// reported in Transition.ReleasedDriverID.
//
// Example:
//
//	tr, err := d.Advance(delivery.InTransit, delivery.AdvanceMeta{}, now)
//	if errors.Is(err, delivery.ErrInvalidTransition) {
//	    // reject the request
//	}
func (d *Delivery) Advance(target Status, meta AdvanceMeta, now time.Time) (Transition, error) {
	if err := target.Validate(); err != nil {
		return Transition{}, err
	}
	if target == d.state.Status {
		return Transition{From: target, To: target}, nil
	}
	if target == Assigned {
		return Transition{}, NewInvalidTransitionError(d.state.Status, target)
	}
	if err := d.state.Status.ValidateTransition(target); err != nil {
		return Transition{}, err
	}
	return d.apply(target, meta, now), nil
}

// Cancel cancels the delivery from any non-terminal status. Cancelling a
// cancelled delivery succeeds without change; a delivered one cannot be cancelled.
func (d *Delivery) Cancel(reason string, now time.Time) (Transition, error) {
	return d.Advance(Cancelled, AdvanceMeta{Reason: strings.TrimSpace(reason)}, now)
}

// Decline returns an assigned delivery to pending because its driver refused it.
// The driver is remembered and never offered this delivery again.
func (d *Delivery) Decline(driverID kernel.UUID, now time.Time) (Transition, error) {
	if d.state.Status != Assigned {
		return Transition{}, NewInvalidStateError("decline", d.state.Status)
	}
	if !d.IsAssignedTo(driverID) {
		return Transition{}, NewInvalidStateError("decline on behalf of another driver", d.state.Status)
	}

	now = now.UTC()
	released := *d.state.DriverID
	if !d.HasDeclined(released) {
		d.state.DeclinedDriverIDs = append(d.state.DeclinedDriverIDs, released)
	}
	d.state.Status = Pending
	d.state.DriverID = nil
	d.state.AssignedAt = nil
	d.state.EstimatedDeliveryTime = nil
	d.state.UpdatedAt = now

	d.raiseStatusChanged(Assigned, Pending, &released, "declined by driver", now)

	return Transition{From: Assigned, To: Pending, Changed: true, ReleasedDriverID: &released}, nil
}

// ConfirmCode validates a scanned code and drives the matching transition.
//
// A pickup code moves assigned to picked_up; a delivery code moves picked_up or
// in_transit to delivered. Scanning a valid code after its milestone was
// reached succeeds without change.
//
// Returns:
//   - ErrInvalidCode when the code does not match the stored secret for kind
//   - *InvalidStateError when the code is valid but does not apply yet
func (d *Delivery) ConfirmCode(kind CodeKind, code string, meta AdvanceMeta, now time.Time) (Transition, error) {
	if !d.state.Codes.Matches(kind, code) {
		return Transition{}, ErrInvalidCode
	}

	current := d.state.Status
	switch kind {
	case PickupCode:
		switch current {
		case Assigned:
			return d.Advance(PickedUp, meta, now)
		case PickedUp, InTransit, Delivered:
			return Transition{From: current, To: current}, nil
		case Pending, Cancelled, Emergency:
		}
	case DeliveryCode:
		switch current {
		case PickedUp, InTransit:
			return d.Advance(Delivered, meta, now)
		case Delivered:
			return Transition{From: current, To: current}, nil
		case Pending, Assigned, Cancelled, Emergency:
		}
	}

	return Transition{}, NewInvalidStateError("confirm "+string(kind)+" code", current)
}

// Codes returns the confirmation secrets. Only the owning driver and customer
// should ever be shown them.
func (d *Delivery) Codes() Codes {
	return d.state.Codes
}

// RegenerateCodes replaces both confirmation codes. Terminal deliveries are rejected.
func (d *Delivery) RegenerateCodes(codes Codes, now time.Time) error {
	if d.state.Status.IsTerminal() {
		return NewInvalidStateError("regenerate codes", d.state.Status)
	}
	if err := validateCodes(codes); err != nil {
		return err
	}

	now = now.UTC()
	d.state.Codes = codes
	d.state.UpdatedAt = now

	d.RaiseDomainEvent(CodesRegeneratedEvent{
		BaseEvent:      ddd.NewBaseEvent(EventCodesRegenerated, now),
		DeliveryID:     d.state.ID,
		TrackingNumber: d.state.TrackingNumber,
		DriverID:       d.state.DriverID,
	})
	return nil
}

// Rate stores the customer's rating once the delivery is delivered.
// It returns the driver who made the delivery so the caller can update their average.
func (d *Delivery) Rate(rating int, feedback string, now time.Time) (kernel.UUID, error) {
	if d.state.Status != Delivered {
		return kernel.UUID{}, NewInvalidStateError("rate", d.state.Status)
	}
	if d.state.CustomerRating != nil {
		return kernel.UUID{}, ErrAlreadyRated
	}
	if rating < MinRating || rating > MaxRating {
		return kernel.UUID{}, errs.NewValueIsOutOfRangeError("rating", rating, MinRating, MaxRating)
	}
	if d.state.LastDriverID == nil {
		return kernel.UUID{}, NewInvalidStateError("rate without a driver", d.state.Status)
	}

	r := rating
	d.state.CustomerRating = &r
	d.state.CustomerFeedback = strings.TrimSpace(feedback)
	d.state.UpdatedAt = now.UTC()

	return *d.state.LastDriverID, nil
}

// TrackPosition records the driver's latest position and the recomputed ETA.
// Only assigned, picked_up and in_transit deliveries are tracked.
func (d *Delivery) TrackPosition(loc kernel.Location, eta time.Time, now time.Time) error {
	if err := loc.Validate(); err != nil {
		return err
	}
	if !d.state.Status.IsTrackable() {
		return NewInvalidStateError("track position", d.state.Status)
	}

	now = now.UTC()
	eta = eta.UTC()
	d.state.LastKnownLocation = &loc
	d.state.LastTrackedAt = &now
	d.state.EstimatedDeliveryTime = &eta
	d.state.UpdatedAt = now

	d.RaiseDomainEvent(LocationUpdatedEvent{
		BaseEvent:             ddd.NewBaseEvent(EventLocationUpdated, now),
		DeliveryID:            d.state.ID,
		TrackingNumber:        d.state.TrackingNumber,
		CustomerRef:           d.state.CustomerRef,
		DriverID:              *d.state.DriverID,
		Location:              loc,
		EstimatedDeliveryTime: &eta,
	})
	return nil
}

// SetEstimatedDeliveryTime stores an ETA computed outside of a location ping,
// for example right after dispatch.
func (d *Delivery) SetEstimatedDeliveryTime(eta time.Time) {
	if d.state.Status.IsTerminal() {
		return
	}
	eta = eta.UTC()
	d.state.EstimatedDeliveryTime = &eta
}

func (d *Delivery) apply(target Status, meta AdvanceMeta, now time.Time) Transition {
	now = now.UTC()
	from := d.state.Status
	where := meta.Location
	if where == nil {
		where = d.state.LastKnownLocation
	}

	switch target {
	case PickedUp:
		if d.state.PickedUpAt == nil {
			d.state.PickedUpAt = &now
		}
		if d.state.ActualPickupLocation == nil && where != nil {
			loc := *where
			d.state.ActualPickupLocation = &loc
		}
	case Delivered:
		d.state.DeliveredAt = &now
		if where != nil {
			loc := *where
			d.state.ActualDeliveryLocation = &loc
		}
		if d.state.PickedUpAt != nil {
			minutes := int(math.Round(now.Sub(*d.state.PickedUpAt).Minutes()))
			d.state.DurationMinutes = &minutes
		}
		km := d.state.EstimatedDistanceKm
		if d.state.ActualPickupLocation != nil && d.state.ActualDeliveryLocation != nil {
			km = d.state.ActualPickupLocation.DistanceTo(*d.state.ActualDeliveryLocation)
		}
		d.state.ActualDistanceKm = &km
	case Cancelled:
		d.state.CancelledAt = &now
		d.state.CancellationReason = meta.Reason
	case Pending, Assigned, InTransit, Emergency:
	}

	d.state.Status = target
	d.state.UpdatedAt = now

	var released *kernel.UUID
	if target.IsTerminal() && d.state.DriverID != nil {
		id := *d.state.DriverID
		released = &id
		d.state.DriverID = nil
	}

	reported := released
	if reported == nil {
		reported = d.state.DriverID
	}
	d.raiseStatusChanged(from, target, reported, meta.Reason, now)

	return Transition{From: from, To: target, Changed: true, ReleasedDriverID: released}
}

func (d *Delivery) raiseStatusChanged(from, to Status, driverID *kernel.UUID, reason string, now time.Time) {
	d.RaiseDomainEvent(StatusChangedEvent{
		BaseEvent:      ddd.NewBaseEvent(EventStatusChanged, now),
		DeliveryID:     d.state.ID,
		TrackingNumber: d.state.TrackingNumber,
		CustomerRef:    d.state.CustomerRef,
		From:           from,
		To:             to,
		DriverID:       driverID,
		Reason:         reason,
	})
}

func validateTrackingNumber(tn string) error {
	if tn == "" {
		return errs.NewValueIsRequiredError("tracking number")
	}
	if !strings.HasPrefix(tn, TrackingPrefix) || len(tn) != trackingNumberLength || tn != strings.ToUpper(tn) {
		return errs.NewValueIsInvalidErrorWithCause("tracking number", fmt.Errorf("%q does not match TRK########XXX", tn))
	}
	return nil
}

func validateCodes(c Codes) error {
	check := func(name, code string) error {
		if !strings.HasPrefix(code, CodePrefix) || len(code) < len(CodePrefix)+13 {
			return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("confirmation codes need the %s prefix and at least 13 random characters", CodePrefix))
		}
		return nil
	}
	return errors.Join(check("pickup code", c.Pickup), check("delivery code", c.Delivery))
}

func validateFee(fee float64) error {
	if math.IsNaN(fee) || fee < 0 {
		return errs.NewValueIsInvalidErrorWithCause("fee", fmt.Errorf("%v is negative", fee))
	}
	return nil
}

func requireText(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
