// Package trackingrepo stores the append-only tracking history: location
// samples and delivery events. Rows are inserted and read, never updated.
package trackingrepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"

	"github.com/google/uuid"
)

// LocationSampleDTO is one row of location_samples.
type LocationSampleDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DriverID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_samples_driver_time,priority:1"`
	DeliveryID     *uuid.UUID `gorm:"type:uuid;index"`
	Latitude       float64    `gorm:"type:double precision;not null"`
	Longitude      float64    `gorm:"type:double precision;not null"`
	AccuracyMeters *float64
	HeadingDegrees *float64
	SpeedKmh       *float64
	AltitudeMeters *float64
	CapturedAt     time.Time `gorm:"not null;index:idx_samples_driver_time,priority:2"`
	RecordedAt     time.Time `gorm:"autoCreateTime:false;not null"`
}

func (LocationSampleDTO) TableName() string {
	return "location_samples"
}

// TrackingEventDTO is one row of tracking_events.
type TrackingEventDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID uuid.UUID `gorm:"type:uuid;not null;index:idx_events_delivery_time,priority:1"`
	Status     string    `gorm:"size:16;not null"`
	Latitude   *float64  `gorm:"type:double precision"`
	Longitude  *float64  `gorm:"type:double precision"`
	Note       string
	Actor      string    `gorm:"size:16;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime:false;not null;index:idx_events_delivery_time,priority:2"`
}

func (TrackingEventDTO) TableName() string {
	return "tracking_events"
}

func sampleFromDomain(s tracking.LocationSample) LocationSampleDTO {
	var deliveryID *uuid.UUID
	if s.DeliveryID != nil {
		raw := s.DeliveryID.Bytes()
		deliveryID = &raw
	}

	return LocationSampleDTO{
		ID:             s.ID.Bytes(),
		DriverID:       s.DriverID.Bytes(),
		DeliveryID:     deliveryID,
		Latitude:       s.Location.Latitude(),
		Longitude:      s.Location.Longitude(),
		AccuracyMeters: s.Telemetry.AccuracyMeters,
		HeadingDegrees: s.Telemetry.HeadingDegrees,
		SpeedKmh:       s.Telemetry.SpeedKmh,
		AltitudeMeters: s.Telemetry.AltitudeMeters,
		CapturedAt:     s.CapturedAt,
		RecordedAt:     s.RecordedAt,
	}
}

func eventFromDomain(e tracking.Event) TrackingEventDTO {
	dto := TrackingEventDTO{
		ID:         e.ID.Bytes(),
		DeliveryID: e.DeliveryID.Bytes(),
		Status:     e.Status.String(),
		Note:       e.Note,
		Actor:      string(e.Actor),
		CreatedAt:  e.CreatedAt,
	}
	if e.Location != nil {
		lat, lng := e.Location.Latitude(), e.Location.Longitude()
		dto.Latitude = &lat
		dto.Longitude = &lng
	}
	return dto
}

func eventToDomain(dto TrackingEventDTO) (tracking.Event, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return tracking.Event{}, err
	}
	deliveryID, err := kernel.UUIDFromBytes(dto.DeliveryID[:])
	if err != nil {
		return tracking.Event{}, err
	}
	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return tracking.Event{}, err
	}
	actor, err := tracking.ParseActor(dto.Actor)
	if err != nil {
		return tracking.Event{}, err
	}

	var loc *kernel.Location
	if dto.Latitude != nil && dto.Longitude != nil {
		l, locErr := kernel.NewLocation(*dto.Latitude, *dto.Longitude)
		if locErr != nil {
			return tracking.Event{}, locErr
		}
		loc = &l
	}

	return tracking.Event{
		ID:         id,
		DeliveryID: deliveryID,
		Status:     status,
		Location:   loc,
		Note:       dto.Note,
		Actor:      actor,
		CreatedAt:  dto.CreatedAt.UTC(),
	}, nil
}
