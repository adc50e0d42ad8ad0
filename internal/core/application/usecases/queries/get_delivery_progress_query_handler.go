package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"gorm.io/gorm"
)

// DeliveryProgressView combines the status with the computed progress.
type DeliveryProgressView struct {
	DeliveryID            kernel.UUID
	TrackingNumber        string
	Status                delivery.Status
	Progress              services.Progress
	Position              *kernel.Location
	EstimatedDeliveryTime *time.Time
}

type GetDeliveryProgressQueryHandler struct {
	deliveries GetDeliveryQueryHandler
	speedKmh   float64
}

// NewGetDeliveryProgressQueryHandler uses speedKmh to turn remaining distance into minutes.
func NewGetDeliveryProgressQueryHandler(db *gorm.DB, speedKmh float64) GetDeliveryProgressQueryHandler {
	if speedKmh <= 0 {
		speedKmh = kernel.DefaultAverageSpeedKmh
	}
	return GetDeliveryProgressQueryHandler{deliveries: NewGetDeliveryQueryHandler(db), speedKmh: speedKmh}
}

// Handle computes progress along the pickup to dropoff leg.
//
// A delivered delivery is always complete. Without any known position the
// driver is assumed to be at the pickup point, which yields zero progress.
func (h GetDeliveryProgressQueryHandler) Handle(ctx context.Context, query GetDeliveryProgressQuery) (DeliveryProgressView, error) {
	if err := query.Validate(); err != nil {
		return DeliveryProgressView{}, err
	}

	byID, err := NewGetDeliveryQueryByID(query.deliveryID)
	if err != nil {
		return DeliveryProgressView{}, err
	}
	view, err := h.deliveries.Handle(ctx, byID)
	if err != nil {
		return DeliveryProgressView{}, err
	}

	position := query.current
	if position == nil {
		position = view.LastKnownLocation
	}

	current := view.Pickup
	if position != nil {
		current = *position
	}
	if view.Status == delivery.Delivered {
		current = view.Dropoff
	}

	return DeliveryProgressView{
		DeliveryID:            view.ID,
		TrackingNumber:        view.TrackingNumber,
		Status:                view.Status,
		Progress:              services.CalculateProgress(view.EstimatedDistanceKm, current, view.Dropoff, h.speedKmh),
		Position:              position,
		EstimatedDeliveryTime: view.EstimatedDeliveryTime,
	}, nil
}
