package trackingrepo

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"

	"gorm.io/gorm"
)

// GormTrackingRepository implements ports.TrackingRepository using GORM.
type GormTrackingRepository struct {
	db *gorm.DB
}

// NewGormTrackingRepository creates a new GORM tracking repository.
func NewGormTrackingRepository(db *gorm.DB) *GormTrackingRepository {
	return &GormTrackingRepository{db: db}
}

// AddSample appends a location sample.
func (r *GormTrackingRepository) AddSample(ctx context.Context, sample tracking.LocationSample) error {
	if err := sample.Location.Validate(); err != nil {
		return err
	}
	dto := sampleFromDomain(sample)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// AddEvent appends a delivery history entry.
func (r *GormTrackingRepository) AddEvent(ctx context.Context, event tracking.Event) error {
	if err := event.DeliveryID.Validate(); err != nil {
		return err
	}
	dto := eventFromDomain(event)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListEvents returns the history of a delivery, oldest first.
func (r *GormTrackingRepository) ListEvents(ctx context.Context, deliveryID kernel.UUID) ([]tracking.Event, error) {
	if err := deliveryID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TrackingEventDTO
	err := r.db.WithContext(ctx).
		Where("delivery_id = ?", deliveryID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	events := make([]tracking.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := eventToDomain(dto)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
