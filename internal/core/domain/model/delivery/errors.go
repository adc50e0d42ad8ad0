package delivery

import (
	"errors"
	"fmt"
)

var (
	// ErrDeliveryIsNotConstructed is returned for a Delivery not built by NewDelivery or Restore.
	ErrDeliveryIsNotConstructed = errors.New("delivery must be created via NewDelivery or Restore")

	// ErrInvalidTransition is the sentinel behind every *InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAlreadyClaimed means another dispatcher bound a driver first.
	ErrAlreadyClaimed = errors.New("delivery already claimed")

	// ErrInvalidCode is returned when a scanned confirmation code does not match.
	ErrInvalidCode = errors.New("invalid confirmation code")

	// ErrInvalidState is returned when an operation does not apply to the current status.
	ErrInvalidState = errors.New("delivery is not in a state where this applies")

	// ErrAlreadyRated is returned for a second customer rating.
	ErrAlreadyRated = errors.New("delivery already rated")

	// ErrTrackingNumberTaken is returned by storage when a generated tracking number collides.
	ErrTrackingNumberTaken = errors.New("tracking number already taken")
)

// InvalidTransitionError reports a rejected From -> To move.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// InvalidStateError explains why an operation was refused in the current status.
type InvalidStateError struct {
	Operation string
	Status    Status
}

func NewInvalidStateError(operation string, status Status) *InvalidStateError {
	return &InvalidStateError{Operation: operation, Status: status}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: cannot %s while %s", ErrInvalidState, e.Operation, e.Status)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}
