package delivery

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery. Values are persisted as-is.
type Status string

const (
	Pending   Status = "pending"
	Assigned  Status = "assigned"
	PickedUp  Status = "picked_up"
	InTransit Status = "in_transit"
	Delivered Status = "delivered"
	Cancelled Status = "cancelled"
	Emergency Status = "emergency"
)

// transitions lists the targets reachable from each status.
// Assigned is listed for completeness; it is entered only through Claim.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:   {Assigned, Cancelled},
		Assigned:  {PickedUp, Cancelled, Emergency},
		PickedUp:  {InTransit, Delivered, Cancelled, Emergency},
		InTransit: {Delivered, Cancelled, Emergency},
		Emergency: {Cancelled},
		Delivered: {},
		Cancelled: {},
	}
}

// AllStatuses returns every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Assigned, PickedUp, InTransit, Delivered, Cancelled, Emergency}
}

// ActiveStatuses are the statuses in which a driver is bound to the delivery.
func ActiveStatuses() []Status {
	return []Status{Assigned, PickedUp, InTransit, Emergency}
}

// ParseStatus converts persisted or user supplied text into a Status.
func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if err := status.Validate(); err != nil {
		return "", err
	}
	return status, nil
}

// Validate rejects anything that is not one of the declared statuses.
func (s Status) Validate() error {
	if _, ok := transitions()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// HasDriver reports whether a delivery in this status must reference a driver.
func (s Status) HasDriver() bool {
	switch s {
	case Assigned, PickedUp, InTransit, Emergency:
		return true
	case Pending, Delivered, Cancelled:
		return false
	}
	return false
}

// IsTrackable reports whether location pings update the delivery.
func (s Status) IsTrackable() bool {
	return s == Assigned || s == PickedUp || s == InTransit
}

// CanTransitionTo reports whether target is listed for s.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range transitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidateTransition returns an *InvalidTransitionError when target is not reachable from s.
func (s Status) ValidateTransition(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if !s.CanTransitionTo(target) {
		return NewInvalidTransitionError(s, target)
	}
	return nil
}

// ValidateCanHaveDriver checks the driver reference invariant for s.
func (s Status) ValidateCanHaveDriver(hasDriver bool) error {
	if hasDriver && !s.HasDriver() {
		return errs.NewValueIsInvalidErrorWithCause("driver", fmt.Errorf("%s delivery cannot reference a driver", s))
	}
	if !hasDriver && s.HasDriver() {
		return errs.NewValueIsInvalidErrorWithCause("driver", fmt.Errorf("%s delivery must reference a driver", s))
	}
	return nil
}
