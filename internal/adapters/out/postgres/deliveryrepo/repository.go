package deliveryrepo

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDeliveryRepository implements ports.DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDeliveryRepository creates a new GORM delivery repository.
func NewGormDeliveryRepository(db *gorm.DB, tracker aggregateTracker) *GormDeliveryRepository {
	return &GormDeliveryRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new delivery to the database.
func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return delivery.ErrTrackingNumberTaken
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing delivery to the database.
func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.updates(ctx).Where("id = ?", dto.ID).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Claim writes a claimed delivery only if the stored row is still pending and unassigned.
func (r *GormDeliveryRepository) Claim(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.Status() != delivery.Assigned || aggregate.DriverID() == nil {
		return delivery.NewInvalidStateError("persist claim", aggregate.Status())
	}

	dto := fromDomain(aggregate)
	result := r.updates(ctx).
		Where("id = ? AND status = ? AND driver_id IS NULL", dto.ID, delivery.Pending.String()).
		Updates(&dto)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return driver.ErrDriverUnavailable
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.lostRace(ctx, aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Reassign writes a declined delivery only if the stored row is still assigned
// to previousDriverID. The new state is either pending without a driver or
// assigned to the next driver.
func (r *GormDeliveryRepository) Reassign(
	ctx context.Context,
	aggregate *delivery.Delivery,
	previousDriverID kernel.UUID,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if err := previousDriverID.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.updates(ctx).
		Where("id = ? AND status = ? AND driver_id = ?", dto.ID, delivery.Assigned.String(), previousDriverID.Bytes()).
		Updates(&dto)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return driver.ErrDriverUnavailable
		}
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.lostRace(ctx, aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a delivery by ID.
func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.get(r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves a delivery by ID and locks its row.
func (r *GormDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// GetByTrackingNumber retrieves a delivery by tracking number.
func (r *GormDeliveryRepository) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*delivery.Delivery, error) {
	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).First(&dto, "tracking_number = ?", trackingNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", trackingNumber)
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByDriver retrieves the delivery bound to driverID and locks its row.
func (r *GormDeliveryRepository) GetActiveByDriver(ctx context.Context, driverID kernel.UUID) (*delivery.Delivery, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "driver_id = ?", driverID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("active delivery of driver", driverID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListPending retrieves unassigned deliveries, oldest first.
func (r *GormDeliveryRepository) ListPending(ctx context.Context, limit int) ([]*delivery.Delivery, error) {
	var dtos []DeliveryDTO
	err := r.db.WithContext(ctx).
		Where("status = ? AND driver_id IS NULL", delivery.Pending.String()).
		Order("created_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	deliveries := make([]*delivery.Delivery, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		deliveries = append(deliveries, d)
	}

	return deliveries, nil
}

// updates writes every column, zero values and NULLs included.
func (r *GormDeliveryRepository) updates(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&DeliveryDTO{}).Select("*").Omit("id", "created_at")
}

func (r *GormDeliveryRepository) get(db *gorm.DB, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := db.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// lostRace tells a missing row from a row another writer changed first.
func (r *GormDeliveryRepository) lostRace(ctx context.Context, id kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&DeliveryDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("delivery", id.String())
	}
	return delivery.ErrAlreadyClaimed
}
