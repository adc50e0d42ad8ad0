// Package deliveryrepo persists delivery aggregates with GORM. It maps the
// aggregate snapshot to the deliveries table and implements the conditional
// writes (claim, reassign) the lifecycle relies on.
package deliveryrepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DeliveryDTO is the row layout of the deliveries table.
//
// The partial unique index on driver_id enforces that a driver is bound to at
// most one delivery at a time: the aggregate clears driver_id when it reaches a
// terminal status.
type DeliveryDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TrackingNumber string    `gorm:"size:14;not null;uniqueIndex"`
	Status         string    `gorm:"size:16;not null;index"`

	OrderRef      string `gorm:"not null"`
	RestaurantRef string
	CustomerRef   string `gorm:"not null;index"`

	Pickup         LocationDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	PickupAddress  string
	Dropoff        LocationDTO `gorm:"embedded;embeddedPrefix:delivery_"`
	DropoffAddress string      `gorm:"column:delivery_address"`

	DriverID          *uuid.UUID     `gorm:"type:uuid;uniqueIndex:idx_deliveries_active_driver,where:driver_id IS NOT NULL"`
	LastDriverID      *uuid.UUID     `gorm:"type:uuid;index"`
	DeclinedDriverIDs pq.StringArray `gorm:"type:text[]"`

	Fee                 float64 `gorm:"type:numeric(10,2);not null"`
	EstimatedDistanceKm float64 `gorm:"not null"`
	ActualDistanceKm    *float64
	PickupCode          string `gorm:"size:32;not null"`
	DeliveryCode        string `gorm:"size:32;not null"`

	CreatedAt   time.Time `gorm:"autoCreateTime:false;not null;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false;not null"`
	AssignedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time

	ActualPickup    OptionalLocationDTO `gorm:"embedded;embeddedPrefix:actual_pickup_"`
	ActualDelivery  OptionalLocationDTO `gorm:"embedded;embeddedPrefix:actual_delivery_"`
	DurationMinutes *int

	LastKnown             OptionalLocationDTO `gorm:"embedded;embeddedPrefix:last_known_"`
	LastTrackedAt         *time.Time
	EstimatedDeliveryTime *time.Time

	CustomerRating     *int `gorm:"check:customer_rating BETWEEN 1 AND 5"`
	CustomerFeedback   string
	CancellationReason string
}

// TableName overrides GORM's default naming.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// LocationDTO is a mandatory coordinate pair.
type LocationDTO struct {
	Latitude  float64 `gorm:"type:double precision;not null"`
	Longitude float64 `gorm:"type:double precision;not null"`
}

// OptionalLocationDTO is a coordinate pair that may be NULL.
type OptionalLocationDTO struct {
	Latitude  *float64 `gorm:"type:double precision"`
	Longitude *float64 `gorm:"type:double precision"`
}

func fromLocation(l kernel.Location) LocationDTO {
	return LocationDTO{Latitude: l.Latitude(), Longitude: l.Longitude()}
}

func fromOptionalLocation(l *kernel.Location) OptionalLocationDTO {
	if l == nil {
		return OptionalLocationDTO{}
	}
	lat, lng := l.Latitude(), l.Longitude()
	return OptionalLocationDTO{Latitude: &lat, Longitude: &lng}
}

func (dto LocationDTO) toDomain() (kernel.Location, error) {
	return kernel.NewLocation(dto.Latitude, dto.Longitude)
}

func (dto OptionalLocationDTO) toDomain() (*kernel.Location, error) {
	if dto.Latitude == nil || dto.Longitude == nil {
		return nil, nil
	}
	loc, err := kernel.NewLocation(*dto.Latitude, *dto.Longitude)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func fromOptionalUUID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func toOptionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// fromDomain converts a delivery aggregate to its row.
func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	s := aggregate.Snapshot()

	declined := make(pq.StringArray, 0, len(s.DeclinedDriverIDs))
	for _, id := range s.DeclinedDriverIDs {
		declined = append(declined, id.String())
	}

	return DeliveryDTO{
		ID:             s.ID.Bytes(),
		TrackingNumber: s.TrackingNumber,
		Status:         s.Status.String(),

		OrderRef:      s.OrderRef,
		RestaurantRef: s.RestaurantRef,
		CustomerRef:   s.CustomerRef,

		Pickup:         fromLocation(s.Pickup),
		PickupAddress:  s.PickupAddress,
		Dropoff:        fromLocation(s.Dropoff),
		DropoffAddress: s.DropoffAddress,

		DriverID:          fromOptionalUUID(s.DriverID),
		LastDriverID:      fromOptionalUUID(s.LastDriverID),
		DeclinedDriverIDs: declined,

		Fee:                 s.Fee,
		EstimatedDistanceKm: s.EstimatedDistanceKm,
		ActualDistanceKm:    s.ActualDistanceKm,
		PickupCode:          s.Codes.Pickup,
		DeliveryCode:        s.Codes.Delivery,

		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		AssignedAt:  s.AssignedAt,
		PickedUpAt:  s.PickedUpAt,
		DeliveredAt: s.DeliveredAt,
		CancelledAt: s.CancelledAt,

		ActualPickup:    fromOptionalLocation(s.ActualPickupLocation),
		ActualDelivery:  fromOptionalLocation(s.ActualDeliveryLocation),
		DurationMinutes: s.DurationMinutes,

		LastKnown:             fromOptionalLocation(s.LastKnownLocation),
		LastTrackedAt:         s.LastTrackedAt,
		EstimatedDeliveryTime: s.EstimatedDeliveryTime,

		CustomerRating:     s.CustomerRating,
		CustomerFeedback:   s.CustomerFeedback,
		CancellationReason: s.CancellationReason,
	}
}

// toDomain rebuilds the aggregate through delivery.Restore, which re-checks its invariants.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	pickup, err := dto.Pickup.toDomain()
	if err != nil {
		return nil, err
	}
	dropoff, err := dto.Dropoff.toDomain()
	if err != nil {
		return nil, err
	}
	driverID, err := toOptionalUUID(dto.DriverID)
	if err != nil {
		return nil, err
	}
	lastDriverID, err := toOptionalUUID(dto.LastDriverID)
	if err != nil {
		return nil, err
	}
	declined, err := kernel.UUIDsFromStrings(dto.DeclinedDriverIDs)
	if err != nil {
		return nil, err
	}
	actualPickup, err := dto.ActualPickup.toDomain()
	if err != nil {
		return nil, err
	}
	actualDelivery, err := dto.ActualDelivery.toDomain()
	if err != nil {
		return nil, err
	}
	lastKnown, err := dto.LastKnown.toDomain()
	if err != nil {
		return nil, err
	}

	return delivery.Restore(delivery.Snapshot{
		ID:             id,
		TrackingNumber: dto.TrackingNumber,
		Status:         status,

		OrderRef:      dto.OrderRef,
		RestaurantRef: dto.RestaurantRef,
		CustomerRef:   dto.CustomerRef,

		Pickup:         pickup,
		PickupAddress:  dto.PickupAddress,
		Dropoff:        dropoff,
		DropoffAddress: dto.DropoffAddress,

		DriverID:          driverID,
		LastDriverID:      lastDriverID,
		DeclinedDriverIDs: declined,

		Fee:                 dto.Fee,
		EstimatedDistanceKm: dto.EstimatedDistanceKm,
		ActualDistanceKm:    dto.ActualDistanceKm,
		Codes:               delivery.Codes{Pickup: dto.PickupCode, Delivery: dto.DeliveryCode},

		CreatedAt:   dto.CreatedAt.UTC(),
		UpdatedAt:   dto.UpdatedAt.UTC(),
		AssignedAt:  utc(dto.AssignedAt),
		PickedUpAt:  utc(dto.PickedUpAt),
		DeliveredAt: utc(dto.DeliveredAt),
		CancelledAt: utc(dto.CancelledAt),

		ActualPickupLocation:   actualPickup,
		ActualDeliveryLocation: actualDelivery,
		DurationMinutes:        dto.DurationMinutes,

		LastKnownLocation:     lastKnown,
		LastTrackedAt:         utc(dto.LastTrackedAt),
		EstimatedDeliveryTime: utc(dto.EstimatedDeliveryTime),

		CustomerRating:     dto.CustomerRating,
		CustomerFeedback:   dto.CustomerFeedback,
		CancellationReason: dto.CancellationReason,
	})
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
