package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const deliveryViewColumns = `
	id,
	tracking_number,
	status,
	order_ref,
	restaurant_ref,
	customer_ref,
	pickup_latitude,
	pickup_longitude,
	pickup_address,
	delivery_latitude,
	delivery_longitude,
	delivery_address,
	driver_id,
	fee,
	estimated_distance_km,
	last_known_latitude,
	last_known_longitude,
	last_tracked_at,
	estimated_delivery_time,
	created_at,
	assigned_at,
	picked_up_at,
	delivered_at,
	cancelled_at,
	duration_minutes,
	customer_rating`

type GetDeliveryQueryHandler struct {
	db *gorm.DB
}

func NewGetDeliveryQueryHandler(db *gorm.DB) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{db: db}
}

// Handle returns the delivery or errs.ErrObjectNotFound.
func (h GetDeliveryQueryHandler) Handle(ctx context.Context, query GetDeliveryQuery) (DeliveryView, error) {
	if err := query.Validate(); err != nil {
		return DeliveryView{}, err
	}

	where, arg, key := "tracking_number = ?", any(query.trackingNumber), query.trackingNumber
	if query.id != nil {
		raw := query.id.Bytes()
		where, arg, key = "id = ?", raw, query.id.String()
	}

	rows, err := h.db.WithContext(ctx).Raw(`SELECT `+deliveryViewColumns+` FROM deliveries WHERE `+where, arg).Rows()
	if err != nil {
		return DeliveryView{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return DeliveryView{}, err
		}
		return DeliveryView{}, errs.NewObjectNotFoundError("delivery", key)
	}

	view, err := scanDeliveryView(rows)
	if err != nil {
		return DeliveryView{}, err
	}

	return view, rows.Err()
}

func scanDeliveryView(rows *sql.Rows) (DeliveryView, error) {
	var (
		view                         DeliveryView
		id                           uuid.UUID
		driverID                     uuid.NullUUID
		status                       string
		pickupLat, pickupLng         float64
		dropoffLat, dropoffLng       float64
		lastKnownLat, lastKnownLng   sql.NullFloat64
		restaurantRef, pickupAddress sql.NullString
		dropoffAddress               sql.NullString
	)

	err := rows.Scan(
		&id,
		&view.TrackingNumber,
		&status,
		&view.OrderRef,
		&restaurantRef,
		&view.CustomerRef,
		&pickupLat,
		&pickupLng,
		&pickupAddress,
		&dropoffLat,
		&dropoffLng,
		&dropoffAddress,
		&driverID,
		&view.Fee,
		&view.EstimatedDistanceKm,
		&lastKnownLat,
		&lastKnownLng,
		&view.LastTrackedAt,
		&view.EstimatedDeliveryTime,
		&view.CreatedAt,
		&view.AssignedAt,
		&view.PickedUpAt,
		&view.DeliveredAt,
		&view.CancelledAt,
		&view.DurationMinutes,
		&view.CustomerRating,
	)
	if err != nil {
		return DeliveryView{}, err
	}

	if view.ID, err = uuidFrom(id); err != nil {
		return DeliveryView{}, err
	}
	if view.Status, err = delivery.ParseStatus(status); err != nil {
		return DeliveryView{}, err
	}
	if view.DriverID, err = optionalUUIDFrom(driverID); err != nil {
		return DeliveryView{}, err
	}
	if view.Pickup, err = kernel.NewLocation(pickupLat, pickupLng); err != nil {
		return DeliveryView{}, err
	}
	if view.Dropoff, err = kernel.NewLocation(dropoffLat, dropoffLng); err != nil {
		return DeliveryView{}, err
	}
	if view.LastKnownLocation, err = optionalLocationFrom(lastKnownLat, lastKnownLng); err != nil {
		return DeliveryView{}, err
	}
	view.RestaurantRef = restaurantRef.String
	view.PickupAddress = pickupAddress.String
	view.DropoffAddress = dropoffAddress.String

	return view, nil
}
