// Package eventhandlers turns committed domain events into outbound messages:
// live tracking updates for watchers of a tracking number and notifications
// for customers and drivers.
package eventhandlers

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/ddd"
)

// TrackingTopicPrefix prefixes the tracking number in broadcast topics.
const TrackingTopicPrefix = "tracking."

// TrackingTopic returns the topic that watchers of trackingNumber subscribe to.
func TrackingTopic(trackingNumber string) string {
	return TrackingTopicPrefix + trackingNumber
}

// LocationPayload is the wire form of a position.
type LocationPayload struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// TrackingUpdate is the payload pushed to tracking watchers.
type TrackingUpdate struct {
	Type                  string           `json:"type"`
	DeliveryID            string           `json:"deliveryId"`
	TrackingNumber        string           `json:"trackingNumber"`
	Status                string           `json:"status,omitempty"`
	PreviousStatus        string           `json:"previousStatus,omitempty"`
	DriverID              string           `json:"driverId,omitempty"`
	Location              *LocationPayload `json:"location,omitempty"`
	EstimatedDeliveryTime *time.Time       `json:"estimatedDeliveryTime,omitempty"`
	OccurredAt            time.Time        `json:"occurredAt"`
}

type TrackingBroadcastHandler struct {
	broadcaster ports.Broadcaster
}

func NewTrackingBroadcastHandler(broadcaster ports.Broadcaster) *TrackingBroadcastHandler {
	return &TrackingBroadcastHandler{broadcaster: broadcaster}
}

// Events lists the event names the handler subscribes to.
func (h *TrackingBroadcastHandler) Events() []string {
	return []string{delivery.EventAssigned, delivery.EventStatusChanged, delivery.EventLocationUpdated}
}

func (h *TrackingBroadcastHandler) Handle(ctx context.Context, event ddd.DomainEvent) error {
	update, ok := trackingUpdateFrom(event)
	if !ok {
		return nil
	}
	return h.broadcaster.Broadcast(ctx, TrackingTopic(update.TrackingNumber), update)
}

func trackingUpdateFrom(event ddd.DomainEvent) (TrackingUpdate, bool) {
	switch e := event.(type) {
	case delivery.AssignedEvent:
		return TrackingUpdate{
			Type:           e.EventName(),
			DeliveryID:     e.DeliveryID.String(),
			TrackingNumber: e.TrackingNumber,
			Status:         string(delivery.Assigned),
			DriverID:       e.DriverID.String(),
			OccurredAt:     e.OccurredAt(),
		}, true
	case delivery.StatusChangedEvent:
		return TrackingUpdate{
			Type:           e.EventName(),
			DeliveryID:     e.DeliveryID.String(),
			TrackingNumber: e.TrackingNumber,
			Status:         string(e.To),
			PreviousStatus: string(e.From),
			OccurredAt:     e.OccurredAt(),
		}, true
	case delivery.LocationUpdatedEvent:
		return TrackingUpdate{
			Type:           e.EventName(),
			DeliveryID:     e.DeliveryID.String(),
			TrackingNumber: e.TrackingNumber,
			DriverID:       e.DriverID.String(),
			Location: &LocationPayload{
				Latitude:  e.Location.Latitude(),
				Longitude: e.Location.Longitude(),
			},
			EstimatedDeliveryTime: e.EstimatedDeliveryTime,
			OccurredAt:            e.OccurredAt(),
		}, true
	default:
		return TrackingUpdate{}, false
	}
}
