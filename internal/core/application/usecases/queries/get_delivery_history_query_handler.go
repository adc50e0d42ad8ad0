package queries

import (
	"context"
	"database/sql"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackingEventView is one history entry.
type TrackingEventView struct {
	ID        kernel.UUID
	Status    delivery.Status
	Location  *kernel.Location
	Note      string
	Actor     tracking.Actor
	CreatedAt time.Time
}

type GetDeliveryHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetDeliveryHistoryQueryHandler(db *gorm.DB) GetDeliveryHistoryQueryHandler {
	return GetDeliveryHistoryQueryHandler{db: db}
}

// Handle returns the events oldest first, or errs.ErrObjectNotFound for an
// unknown delivery.
func (h GetDeliveryHistoryQueryHandler) Handle(ctx context.Context, query GetDeliveryHistoryQuery) ([]TrackingEventView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	var exists bool
	err := h.db.WithContext(ctx).
		Raw(`SELECT EXISTS (SELECT 1 FROM deliveries WHERE id = ?)`, query.deliveryID.Bytes()).
		Scan(&exists).Error
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errs.NewObjectNotFoundError("delivery", query.deliveryID.String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			status,
			latitude,
			longitude,
			note,
			actor,
			created_at
		FROM tracking_events
		WHERE delivery_id = ?
		ORDER BY created_at, id
	`, query.deliveryID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]TrackingEventView, 0)
	for rows.Next() {
		var (
			event    TrackingEventView
			id       uuid.UUID
			status   string
			actor    string
			note     sql.NullString
			lat, lng sql.NullFloat64
		)

		if err := rows.Scan(&id, &status, &lat, &lng, &note, &actor, &event.CreatedAt); err != nil {
			return nil, err
		}

		if event.ID, err = uuidFrom(id); err != nil {
			return nil, err
		}
		if event.Status, err = delivery.ParseStatus(status); err != nil {
			return nil, err
		}
		if event.Actor, err = tracking.ParseActor(actor); err != nil {
			return nil, err
		}
		if event.Location, err = optionalLocationFrom(lat, lng); err != nil {
			return nil, err
		}
		event.Note = note.String

		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}
