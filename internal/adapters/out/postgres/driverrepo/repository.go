package driverrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDriverRepository implements ports.DriverRepository using GORM.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormDriverRepository creates a new GORM driver repository.
func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new driver to the database.
func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return driver.ErrAccountAlreadyRegistered
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves every column of an existing driver.
func (r *GormDriverRepository) Update(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Select("*").
		Omit("id", "account_id", "created_at").
		Where("id = ?", dto.ID).
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdateLocation saves the location columns only.
func (r *GormDriverRepository) UpdateLocation(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"location_latitude":    dto.Location.Latitude,
			"location_longitude":   dto.Location.Longitude,
			"last_location_update": dto.LastLocationUpdate,
			"updated_at":           dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("driver", aggregate.ID().String())
	}

	return nil
}

// EndShift takes the driver off shift only if the stored row is still on
// shift and silent since before. Reports whether the row was changed.
func (r *GormDriverRepository) EndShift(ctx context.Context, aggregate *driver.Driver, before time.Time) (bool, error) {
	if err := aggregate.Validate(); err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ? AND active AND (last_location_update IS NULL OR last_location_update < ?)",
			aggregate.ID().Bytes(), before.UTC()).
		Updates(map[string]any{
			"active":     false,
			"updated_at": aggregate.Snapshot().UpdatedAt,
		})
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected > 0, nil
}

// Occupy marks an occupied driver as unavailable only if the stored row is still available.
func (r *GormDriverRepository) Occupy(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ? AND available = ?", aggregate.ID().Bytes(), true).
		Updates(map[string]any{
			"available":  false,
			"updated_at": aggregate.Snapshot().UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, aggregate.ID()); err != nil {
			return err
		}
		return driver.ErrDriverUnavailable
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves a driver by ID.
func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

// GetForUpdate retrieves a driver by ID and locks the row.
func (r *GormDriverRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id = ?", id)
}

// GetByAccountID retrieves the driver bound to an account.
func (r *GormDriverRepository) GetByAccountID(ctx context.Context, accountID string) (*driver.Driver, error) {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return nil, driver.ErrAccountIsRequired
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", accountID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListCandidates retrieves eligible drivers inside the bounding box.
func (r *GormDriverRepository) ListCandidates(ctx context.Context, box kernel.BoundingBox) ([]*driver.Driver, error) {
	var dtos []DriverDTO
	err := r.db.WithContext(ctx).
		Where("available AND verified AND active").
		Where("location_latitude BETWEEN ? AND ?", box.MinLatitude, box.MaxLatitude).
		Where("location_longitude BETWEEN ? AND ?", box.MinLongitude, box.MaxLongitude).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// ListStaleActive retrieves on-shift drivers silent since before and locks
// their rows. Rows locked by a concurrent claim or ping are skipped.
func (r *GormDriverRepository) ListStaleActive(ctx context.Context, before time.Time) ([]*driver.Driver, error) {
	var dtos []DriverDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("active AND (last_location_update IS NULL OR last_location_update < ?)", before.UTC()).
		Order("id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormDriverRepository) first(db *gorm.DB, query string, id kernel.UUID) (*driver.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := db.First(&dto, query, id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func toDomainList(dtos []DriverDTO) ([]*driver.Driver, error) {
	drivers := make([]*driver.Driver, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}
