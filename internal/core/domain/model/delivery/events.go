package delivery

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/ddd"
)

// Event names as they appear on the broadcast exchange and notification topic.
const (
	EventCreated          = "delivery.created"
	EventAssigned         = "delivery.assigned"
	EventStatusChanged    = "delivery.status_changed"
	EventLocationUpdated  = "delivery.location_updated"
	EventCodesRegenerated = "delivery.codes_regenerated"
)

// CreatedEvent is raised once by NewDelivery.
type CreatedEvent struct {
	ddd.BaseEvent
	DeliveryID     kernel.UUID
	TrackingNumber string
	CustomerRef    string
	Pickup         kernel.Location
	Dropoff        kernel.Location
	Fee            float64
}

// AssignedEvent is raised by a successful claim.
type AssignedEvent struct {
	ddd.BaseEvent
	DeliveryID     kernel.UUID
	TrackingNumber string
	CustomerRef    string
	DriverID       kernel.UUID
}

// StatusChangedEvent is raised on every status change, including claim and decline.
type StatusChangedEvent struct {
	ddd.BaseEvent
	DeliveryID     kernel.UUID
	TrackingNumber string
	CustomerRef    string
	From           Status
	To             Status
	// DriverID is the driver bound before the change when the change released one.
	DriverID *kernel.UUID
	Reason   string
}

// LocationUpdatedEvent is raised when a driver ping moves an active delivery.
type LocationUpdatedEvent struct {
	ddd.BaseEvent
	DeliveryID            kernel.UUID
	TrackingNumber        string
	CustomerRef           string
	DriverID              kernel.UUID
	Location              kernel.Location
	EstimatedDeliveryTime *time.Time
}

// CodesRegeneratedEvent is raised when an admin replaces both confirmation codes.
type CodesRegeneratedEvent struct {
	ddd.BaseEvent
	DeliveryID     kernel.UUID
	TrackingNumber string
	DriverID       *kernel.UUID
}
