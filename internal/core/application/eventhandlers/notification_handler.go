package eventhandlers

import (
	"context"
	"errors"
	"fmt"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/ddd"
)

// Notification types.
const (
	NotificationDeliveryCreated  = "delivery_created"
	NotificationDriverAssigned   = "driver_assigned"
	NotificationNewDelivery      = "new_delivery"
	NotificationStatusChanged    = "delivery_status_changed"
	NotificationDeliveryReleased = "delivery_released"
	NotificationCodesRegenerated = "codes_regenerated"
)

type NotificationHandler struct {
	sender ports.NotificationSender
}

func NewNotificationHandler(sender ports.NotificationSender) *NotificationHandler {
	return &NotificationHandler{sender: sender}
}

func (h *NotificationHandler) Events() []string {
	return []string{
		delivery.EventCreated,
		delivery.EventAssigned,
		delivery.EventStatusChanged,
		delivery.EventCodesRegenerated,
	}
}

// Handle sends every notification the event implies. A failed send does not
// prevent the others.
func (h *NotificationHandler) Handle(ctx context.Context, event ddd.DomainEvent) error {
	var errs []error
	for _, out := range notificationsFor(event) {
		if err := h.sender.SendNotification(ctx, out.recipientID, out.notification); err != nil {
			errs = append(errs, fmt.Errorf("notify %s: %w", out.recipientID, err))
		}
	}
	return errors.Join(errs...)
}

type outgoing struct {
	recipientID  string
	notification ports.Notification
}

func notificationsFor(event ddd.DomainEvent) []outgoing {
	switch e := event.(type) {
	case delivery.CreatedEvent:
		return []outgoing{{
			recipientID: e.CustomerRef,
			notification: ports.Notification{
				Type:    NotificationDeliveryCreated,
				Title:   "Delivery created",
				Message: fmt.Sprintf("Your delivery %s has been created", e.TrackingNumber),
				Data:    map[string]any{"deliveryId": e.DeliveryID.String(), "trackingNumber": e.TrackingNumber},
			},
		}}
	case delivery.AssignedEvent:
		data := map[string]any{
			"deliveryId":     e.DeliveryID.String(),
			"trackingNumber": e.TrackingNumber,
			"driverId":       e.DriverID.String(),
		}
		return []outgoing{
			{
				recipientID: e.CustomerRef,
				notification: ports.Notification{
					Type:    NotificationDriverAssigned,
					Title:   "Driver assigned",
					Message: fmt.Sprintf("A driver is on the way to pick up %s", e.TrackingNumber),
					Data:    data,
				},
			},
			{
				recipientID: e.DriverID.String(),
				notification: ports.Notification{
					Type:    NotificationNewDelivery,
					Title:   "New delivery",
					Message: fmt.Sprintf("You have been assigned delivery %s", e.TrackingNumber),
					Data:    data,
				},
			},
		}
	case delivery.StatusChangedEvent:
		return statusNotifications(e)
	case delivery.CodesRegeneratedEvent:
		if e.DriverID == nil {
			return nil
		}
		return []outgoing{{
			recipientID: e.DriverID.String(),
			notification: ports.Notification{
				Type:    NotificationCodesRegenerated,
				Title:   "Confirmation codes changed",
				Message: fmt.Sprintf("Codes for delivery %s were regenerated", e.TrackingNumber),
				Data:    map[string]any{"deliveryId": e.DeliveryID.String(), "trackingNumber": e.TrackingNumber},
			},
		}}
	default:
		return nil
	}
}

func statusNotifications(e delivery.StatusChangedEvent) []outgoing {
	data := map[string]any{
		"deliveryId":     e.DeliveryID.String(),
		"trackingNumber": e.TrackingNumber,
		"from":           string(e.From),
		"to":             string(e.To),
	}
	if e.Reason != "" {
		data["reason"] = e.Reason
	}

	out := []outgoing{{
		recipientID: e.CustomerRef,
		notification: ports.Notification{
			Type:    NotificationStatusChanged,
			Title:   "Delivery update",
			Message: fmt.Sprintf("Delivery %s is now %s", e.TrackingNumber, e.To),
			Data:    data,
		},
	}}

	if e.To == delivery.Cancelled && e.DriverID != nil {
		out = append(out, outgoing{
			recipientID: e.DriverID.String(),
			notification: ports.Notification{
				Type:    NotificationDeliveryReleased,
				Title:   "Delivery released",
				Message: fmt.Sprintf("You are no longer assigned to delivery %s", e.TrackingNumber),
				Data:    data,
			},
		})
	}
	return out
}
