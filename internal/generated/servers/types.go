package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for Actor.
const (
	ActorAdmin    Actor = "admin"
	ActorCustomer Actor = "customer"
	ActorDriver   Actor = "driver"
	ActorSystem   Actor = "system"
)

// Defines values for CodeKind.
const (
	CodeKindDelivery CodeKind = "delivery"
	CodeKindPickup   CodeKind = "pickup"
)

// Defines values for DeliveryStatus.
const (
	Assigned  DeliveryStatus = "assigned"
	Cancelled DeliveryStatus = "cancelled"
	Delivered DeliveryStatus = "delivered"
	Emergency DeliveryStatus = "emergency"
	InTransit DeliveryStatus = "in_transit"
	PickedUp  DeliveryStatus = "picked_up"
	Pending   DeliveryStatus = "pending"
)

// Defines values for PingResultEtaSource.
const (
	Fallback PingResultEtaSource = "fallback"
	Routing  PingResultEtaSource = "routing"
)

// Actor defines model for Actor.
type Actor string

// CancelRequest defines model for CancelRequest.
type CancelRequest struct {
	Actor  *Actor `json:"actor,omitempty"`
	Reason string `json:"reason"`
}

// CodeConfirmation defines model for CodeConfirmation.
type CodeConfirmation struct {
	Code     string    `json:"code"`
	Kind     CodeKind  `json:"kind"`
	Location *Location `json:"location,omitempty"`
}

// CodeKind defines model for CodeKind.
type CodeKind string

// Codes defines model for Codes.
type Codes struct {
	DeliveryCode string `json:"deliveryCode"`
	PickupCode   string `json:"pickupCode"`
}

// CreatedDelivery defines model for CreatedDelivery.
type CreatedDelivery struct {
	DeliveryCode   string             `json:"deliveryCode"`
	Fee            float64            `json:"fee"`
	Id             openapi_types.UUID `json:"id"`
	PickupCode     string             `json:"pickupCode"`
	TrackingNumber string             `json:"trackingNumber"`
}

// CreatedDriver defines model for CreatedDriver.
type CreatedDriver struct {
	Id openapi_types.UUID `json:"id"`
}

// Decline defines model for Decline.
type Decline struct {
	Changed      bool                `json:"changed"`
	From         DeliveryStatus      `json:"from"`
	ReassignedTo *openapi_types.UUID `json:"reassignedTo,omitempty"`
	To           DeliveryStatus      `json:"to"`
}

// DeclineRequest defines model for DeclineRequest.
type DeclineRequest struct {
	DriverId openapi_types.UUID `json:"driverId"`
}

// Delivery defines model for Delivery.
type Delivery struct {
	AssignedAt            *time.Time          `json:"assignedAt,omitempty"`
	CancelledAt           *time.Time          `json:"cancelledAt,omitempty"`
	CreatedAt             time.Time           `json:"createdAt"`
	CustomerRating        *int                `json:"customerRating,omitempty"`
	CustomerRef           string              `json:"customerRef"`
	DeliveredAt           *time.Time          `json:"deliveredAt,omitempty"`
	DriverId              *openapi_types.UUID `json:"driverId,omitempty"`
	Dropoff               Location            `json:"dropoff"`
	DropoffAddress        string              `json:"dropoffAddress"`
	DurationMinutes       *int                `json:"durationMinutes,omitempty"`
	EstimatedDeliveryTime *time.Time          `json:"estimatedDeliveryTime,omitempty"`
	EstimatedDistanceKm   float64             `json:"estimatedDistanceKm"`
	Fee                   float64             `json:"fee"`
	Id                    openapi_types.UUID  `json:"id"`
	LastKnownLocation     *Location           `json:"lastKnownLocation,omitempty"`
	LastTrackedAt         *time.Time          `json:"lastTrackedAt,omitempty"`
	OrderRef              string              `json:"orderRef"`
	PickedUpAt            *time.Time          `json:"pickedUpAt,omitempty"`
	Pickup                Location            `json:"pickup"`
	PickupAddress         string              `json:"pickupAddress"`
	RestaurantRef         string              `json:"restaurantRef"`
	Status                DeliveryStatus      `json:"status"`
	TrackingNumber        string              `json:"trackingNumber"`
}

// DeliveryStatus defines model for DeliveryStatus.
type DeliveryStatus string

// Dispatch defines model for Dispatch.
type Dispatch struct {
	// Alternatives Remaining ranked candidates, best first.
	Alternatives          []DispatchCandidate `json:"alternatives"`
	Breakdown             ScoreBreakdown      `json:"breakdown"`
	DeliveryId            openapi_types.UUID  `json:"deliveryId"`
	DistanceKm            float64             `json:"distanceKm"`
	DriverId              openapi_types.UUID  `json:"driverId"`
	EstimatedDeliveryTime time.Time           `json:"estimatedDeliveryTime"`
	Score                 float64             `json:"score"`
}

// DispatchCandidate defines model for DispatchCandidate.
type DispatchCandidate struct {
	Breakdown  ScoreBreakdown     `json:"breakdown"`
	DistanceKm float64            `json:"distanceKm"`
	DriverId   openapi_types.UUID `json:"driverId"`
	Score      float64            `json:"score"`
}

// DispatchRequest defines model for DispatchRequest.
type DispatchRequest struct {
	ExcludedDriverIds *[]openapi_types.UUID `json:"excludedDriverIds,omitempty"`
}

// Driver defines model for Driver.
type Driver struct {
	AccountId          string              `json:"accountId"`
	Active             bool                `json:"active"`
	ActiveDeliveryId   *openapi_types.UUID `json:"activeDeliveryId,omitempty"`
	Available          bool                `json:"available"`
	Id                 openapi_types.UUID  `json:"id"`
	LastLocationUpdate *time.Time          `json:"lastLocationUpdate,omitempty"`
	Location           *Location           `json:"location,omitempty"`
	Name               string              `json:"name"`
	Rating             float64             `json:"rating"`
	RatingsCount       int                 `json:"ratingsCount"`
	TotalDeliveries    int                 `json:"totalDeliveries"`
	TotalEarnings      float64             `json:"totalEarnings"`
	Verified           bool                `json:"verified"`
}

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Location defines model for Location.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// LocationPing defines model for LocationPing.
type LocationPing struct {
	Accuracy   *float64   `json:"accuracy,omitempty"`
	Altitude   *float64   `json:"altitude,omitempty"`
	CapturedAt *time.Time `json:"capturedAt,omitempty"`
	Heading    *float64   `json:"heading,omitempty"`
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	Speed      *float64   `json:"speed,omitempty"`
}

// NewDelivery defines model for NewDelivery.
type NewDelivery struct {
	CustomerRef    string   `json:"customerRef"`
	Dropoff        Location `json:"dropoff"`
	DropoffAddress string   `json:"dropoffAddress"`
	Fee            *float64 `json:"fee,omitempty"`
	OrderRef       string   `json:"orderRef"`
	Pickup         Location `json:"pickup"`
	PickupAddress  string   `json:"pickupAddress"`
	RestaurantRef  string   `json:"restaurantRef"`
}

// NewDriver defines model for NewDriver.
type NewDriver struct {
	AccountId string    `json:"accountId"`
	Location  *Location `json:"location,omitempty"`
	Name      string    `json:"name"`
}

// PingResult defines model for PingResult.
type PingResult struct {
	DeliveryId            *openapi_types.UUID  `json:"deliveryId,omitempty"`
	EstimatedDeliveryTime *time.Time           `json:"estimatedDeliveryTime,omitempty"`
	EtaSource             *PingResultEtaSource `json:"etaSource,omitempty"`
}

// PingResultEtaSource defines model for PingResult.EtaSource.
type PingResultEtaSource string

// Progress defines model for Progress.
type Progress struct {
	DeliveryId            openapi_types.UUID `json:"deliveryId"`
	EstimatedDeliveryTime *time.Time         `json:"estimatedDeliveryTime,omitempty"`
	Percent               float64            `json:"percent"`
	Position              *Location          `json:"position,omitempty"`
	RemainingDistanceKm   float64            `json:"remainingDistanceKm"`
	RemainingMinutes      int                `json:"remainingMinutes"`
	Status                DeliveryStatus     `json:"status"`
	TrackingNumber        string             `json:"trackingNumber"`
}

// Rating defines model for Rating.
type Rating struct {
	Feedback *string `json:"feedback,omitempty"`
	Rating   int     `json:"rating"`
}

// ScoreBreakdown defines model for ScoreBreakdown.
type ScoreBreakdown struct {
	Experience float64 `json:"experience"`
	Proximity  float64 `json:"proximity"`
	Rating     float64 `json:"rating"`
	Recency    float64 `json:"recency"`
}

// ShiftUpdate defines model for ShiftUpdate.
type ShiftUpdate struct {
	OnShift bool `json:"onShift"`
}

// StatusUpdate defines model for StatusUpdate.
type StatusUpdate struct {
	Actor    *Actor         `json:"actor,omitempty"`
	Location *Location      `json:"location,omitempty"`
	Note     *string        `json:"note,omitempty"`
	Status   DeliveryStatus `json:"status"`
}

// TrackingEvent defines model for TrackingEvent.
type TrackingEvent struct {
	Actor     Actor              `json:"actor"`
	CreatedAt time.Time          `json:"createdAt"`
	Id        openapi_types.UUID `json:"id"`
	Location  *Location          `json:"location,omitempty"`
	Note      string             `json:"note"`
	Status    DeliveryStatus     `json:"status"`
}

// Transition defines model for Transition.
type Transition struct {
	Changed bool           `json:"changed"`
	From    DeliveryStatus `json:"from"`
	To      DeliveryStatus `json:"to"`
}

// DeliveryId defines model for DeliveryId.
type DeliveryId = openapi_types.UUID

// DriverId defines model for DriverId.
type DriverId = openapi_types.UUID

// ListDeliveriesParams defines parameters for ListDeliveries.
type ListDeliveriesParams struct {
	Status *DeliveryStatus `form:"status,omitempty" json:"status,omitempty"`

	// DriverId Deliveries last handled by this driver.
	DriverId *openapi_types.UUID `form:"driverId,omitempty" json:"driverId,omitempty"`
	Limit    *int                `form:"limit,omitempty" json:"limit,omitempty"`
}

// GetDeliveryProgressParams defines parameters for GetDeliveryProgress.
type GetDeliveryProgressParams struct {
	Latitude  *float64 `form:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `form:"longitude,omitempty" json:"longitude,omitempty"`
}

// CreateDeliveryJSONRequestBody defines body for CreateDelivery for application/json ContentType.
type CreateDeliveryJSONRequestBody = NewDelivery

// AdvanceDeliveryJSONRequestBody defines body for AdvanceDelivery for application/json ContentType.
type AdvanceDeliveryJSONRequestBody = StatusUpdate

// CancelDeliveryJSONRequestBody defines body for CancelDelivery for application/json ContentType.
type CancelDeliveryJSONRequestBody = CancelRequest

// ConfirmCodeJSONRequestBody defines body for ConfirmCode for application/json ContentType.
type ConfirmCodeJSONRequestBody = CodeConfirmation

// DeclineDeliveryJSONRequestBody defines body for DeclineDelivery for application/json ContentType.
type DeclineDeliveryJSONRequestBody = DeclineRequest

// DispatchDeliveryJSONRequestBody defines body for DispatchDelivery for application/json ContentType.
type DispatchDeliveryJSONRequestBody = DispatchRequest

// RateDeliveryJSONRequestBody defines body for RateDelivery for application/json ContentType.
type RateDeliveryJSONRequestBody = Rating

// RegisterDriverJSONRequestBody defines body for RegisterDriver for application/json ContentType.
type RegisterDriverJSONRequestBody = NewDriver

// ReportDriverLocationJSONRequestBody defines body for ReportDriverLocation for application/json ContentType.
type ReportDriverLocationJSONRequestBody = LocationPing

// ChangeDriverShiftJSONRequestBody defines body for ChangeDriverShift for application/json ContentType.
type ChangeDriverShiftJSONRequestBody = ShiftUpdate
