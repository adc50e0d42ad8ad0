package queries

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrGetDeliveryQueryIsNotConstructed = errors.New(
	"GetDeliveryQuery must be created via NewGetDeliveryQueryByID or NewGetDeliveryQueryByTrackingNumber",
)

// GetDeliveryQuery looks a delivery up by id or by its public tracking number.
//
// Example:
//
//	query, err := NewGetDeliveryQueryByTrackingNumber("TRK12345678ABC")
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetDeliveryQuery struct {
	id             *kernel.UUID
	trackingNumber string

	guard guard.ConstructorGuard
}

func NewGetDeliveryQueryByID(id kernel.UUID) (GetDeliveryQuery, error) {
	if err := id.Validate(); err != nil {
		return GetDeliveryQuery{}, err
	}
	return GetDeliveryQuery{id: &id, guard: guard.NewConstructorGuard()}, nil
}

func NewGetDeliveryQueryByTrackingNumber(trackingNumber string) (GetDeliveryQuery, error) {
	trackingNumber = strings.ToUpper(strings.TrimSpace(trackingNumber))
	if trackingNumber == "" {
		return GetDeliveryQuery{}, errs.NewValueIsRequiredError("tracking number")
	}
	return GetDeliveryQuery{trackingNumber: trackingNumber, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDeliveryQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryQueryIsNotConstructed)
}

// DeliveryView is the public read model of a delivery. Confirmation codes are
// never part of it.
type DeliveryView struct {
	ID             kernel.UUID
	TrackingNumber string
	Status         delivery.Status
	OrderRef       string
	RestaurantRef  string
	CustomerRef    string

	Pickup         kernel.Location
	PickupAddress  string
	Dropoff        kernel.Location
	DropoffAddress string

	DriverID            *kernel.UUID
	Fee                 float64
	EstimatedDistanceKm float64

	LastKnownLocation     *kernel.Location
	LastTrackedAt         *time.Time
	EstimatedDeliveryTime *time.Time

	CreatedAt       time.Time
	AssignedAt      *time.Time
	PickedUpAt      *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	DurationMinutes *int
	CustomerRating  *int
}
