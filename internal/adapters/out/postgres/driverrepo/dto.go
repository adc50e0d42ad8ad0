// Package driverrepo persists the driver directory with GORM.
package driverrepo

import (
	"time"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO represents the database structure for persisting driver aggregates.
// The composite index serves the candidate query: flags first, then the bounding box.
type DriverDTO struct {
	ID                 uuid.UUID   `gorm:"type:uuid;primaryKey"`
	AccountID          string      `gorm:"type:varchar(255);not null;uniqueIndex"`
	Name               string      `gorm:"type:varchar(255);not null"`
	Location           LocationDTO `gorm:"embedded;embeddedPrefix:location_"`
	LastLocationUpdate *time.Time  `gorm:"index"`
	Available          bool        `gorm:"not null;index:idx_drivers_eligible,priority:1"`
	Verified           bool        `gorm:"not null;index:idx_drivers_eligible,priority:2"`
	Active             bool        `gorm:"not null;index:idx_drivers_eligible,priority:3"`
	Rating             float64     `gorm:"type:numeric(3,2);not null;check:rating BETWEEN 0 AND 5"`
	RatingsCount       int         `gorm:"not null"`
	TotalDeliveries    int         `gorm:"not null"`
	TotalEarnings      float64     `gorm:"type:numeric(12,2);not null"`
	CreatedAt          time.Time   `gorm:"autoCreateTime:false;not null"`
	UpdatedAt          time.Time   `gorm:"autoUpdateTime:false;not null"`
}

// TableName specifies the database table name for driver entities.
func (DriverDTO) TableName() string {
	return "drivers"
}

// LocationDTO is the driver's last known position. Both columns are NULL until the first ping.
type LocationDTO struct {
	Latitude  *float64 `gorm:"type:double precision"`
	Longitude *float64 `gorm:"type:double precision"`
}

// fromDomain converts a driver aggregate to its database representation.
func fromDomain(aggregate *driver.Driver) DriverDTO {
	s := aggregate.Snapshot()

	var loc LocationDTO
	if s.Location != nil {
		lat, lng := s.Location.Latitude(), s.Location.Longitude()
		loc = LocationDTO{Latitude: &lat, Longitude: &lng}
	}

	return DriverDTO{
		ID:                 s.ID.Bytes(),
		AccountID:          s.AccountID,
		Name:               s.Name,
		Location:           loc,
		LastLocationUpdate: s.LastLocationUpdate,
		Available:          s.Available,
		Verified:           s.Verified,
		Active:             s.Active,
		Rating:             s.Rating,
		RatingsCount:       s.RatingsCount,
		TotalDeliveries:    s.TotalDeliveries,
		TotalEarnings:      s.TotalEarnings,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

// toDomain converts a database DTO to a driver aggregate using driver.Restore.
func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var loc *kernel.Location
	if dto.Location.Latitude != nil && dto.Location.Longitude != nil {
		l, locErr := kernel.NewLocation(*dto.Location.Latitude, *dto.Location.Longitude)
		if locErr != nil {
			return nil, locErr
		}
		loc = &l
	}

	var lastUpdate *time.Time
	if dto.LastLocationUpdate != nil {
		t := dto.LastLocationUpdate.UTC()
		lastUpdate = &t
	}

	return driver.Restore(driver.Snapshot{
		ID:                 id,
		AccountID:          dto.AccountID,
		Name:               dto.Name,
		Location:           loc,
		LastLocationUpdate: lastUpdate,
		Available:          dto.Available,
		Verified:           dto.Verified,
		Active:             dto.Active,
		Rating:             dto.Rating,
		RatingsCount:       dto.RatingsCount,
		TotalDeliveries:    dto.TotalDeliveries,
		TotalEarnings:      dto.TotalEarnings,
		CreatedAt:          dto.CreatedAt.UTC(),
		UpdatedAt:          dto.UpdatedAt.UTC(),
	})
}
