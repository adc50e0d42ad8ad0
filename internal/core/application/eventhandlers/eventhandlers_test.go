package eventhandlers_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/application/eventhandlers"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/ddd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(ctx context.Context, topic string, payload any) error {
	args := m.Called(ctx, topic, payload)
	return args.Error(0)
}

type MockNotificationSender struct {
	mock.Mock
}

func (m *MockNotificationSender) SendNotification(ctx context.Context, recipientID string, n ports.Notification) error {
	args := m.Called(ctx, recipientID, n)
	return args.Error(0)
}

var occurred = time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC)

func TestTrackingBroadcastHandler_LocationUpdate(t *testing.T) {
	broadcaster := &MockBroadcaster{}
	handler := eventhandlers.NewTrackingBroadcastHandler(broadcaster)

	eta := occurred.Add(12 * time.Minute)
	event := delivery.LocationUpdatedEvent{
		BaseEvent:             ddd.NewBaseEvent(delivery.EventLocationUpdated, occurred),
		DeliveryID:            kernel.NewUUID(),
		TrackingNumber:        "TRK12345678ABC",
		CustomerRef:           "customer-1",
		DriverID:              kernel.NewUUID(),
		Location:              kernel.MustNewLocation(55.76, 37.62),
		EstimatedDeliveryTime: &eta,
	}

	broadcaster.On("Broadcast", mock.Anything, "tracking.TRK12345678ABC",
		mock.MatchedBy(func(u eventhandlers.TrackingUpdate) bool {
			return u.Type == delivery.EventLocationUpdated &&
				u.Location != nil && u.Location.Latitude == 55.76 &&
				u.EstimatedDeliveryTime != nil && u.EstimatedDeliveryTime.Equal(eta)
		})).Return(nil).Once()

	require.NoError(t, handler.Handle(context.Background(), event))
	broadcaster.AssertExpectations(t)
}

func TestTrackingBroadcastHandler_StatusChangeCarriesBothStatuses(t *testing.T) {
	broadcaster := &MockBroadcaster{}
	handler := eventhandlers.NewTrackingBroadcastHandler(broadcaster)

	event := delivery.StatusChangedEvent{
		BaseEvent:      ddd.NewBaseEvent(delivery.EventStatusChanged, occurred),
		DeliveryID:     kernel.NewUUID(),
		TrackingNumber: "TRK00000001XYZ",
		From:           delivery.Assigned,
		To:             delivery.PickedUp,
	}

	broadcaster.On("Broadcast", mock.Anything, "tracking.TRK00000001XYZ",
		mock.MatchedBy(func(u eventhandlers.TrackingUpdate) bool {
			return u.Status == "picked_up" && u.PreviousStatus == "assigned"
		})).Return(errors.New("exchange closed")).Once()

	assert.EqualError(t, handler.Handle(context.Background(), event), "exchange closed")
}

func TestTrackingBroadcastHandler_IgnoresOtherEvents(t *testing.T) {
	broadcaster := &MockBroadcaster{}
	handler := eventhandlers.NewTrackingBroadcastHandler(broadcaster)

	event := delivery.CreatedEvent{BaseEvent: ddd.NewBaseEvent(delivery.EventCreated, occurred)}

	require.NoError(t, handler.Handle(context.Background(), event))
	broadcaster.AssertNotCalled(t, "Broadcast", mock.Anything, mock.Anything, mock.Anything)
}

func TestNotificationHandler_AssignedNotifiesCustomerAndDriver(t *testing.T) {
	sender := &MockNotificationSender{}
	handler := eventhandlers.NewNotificationHandler(sender)

	driverID := kernel.NewUUID()
	event := delivery.AssignedEvent{
		BaseEvent:      ddd.NewBaseEvent(delivery.EventAssigned, occurred),
		DeliveryID:     kernel.NewUUID(),
		TrackingNumber: "TRK12345678ABC",
		CustomerRef:    "customer-7",
		DriverID:       driverID,
	}

	sender.On("SendNotification", mock.Anything, "customer-7",
		mock.MatchedBy(func(n ports.Notification) bool { return n.Type == eventhandlers.NotificationDriverAssigned })).
		Return(nil).Once()
	sender.On("SendNotification", mock.Anything, driverID.String(),
		mock.MatchedBy(func(n ports.Notification) bool { return n.Type == eventhandlers.NotificationNewDelivery })).
		Return(nil).Once()

	require.NoError(t, handler.Handle(context.Background(), event))
	sender.AssertExpectations(t)
}

func TestNotificationHandler_CancelledReleasesDriver(t *testing.T) {
	sender := &MockNotificationSender{}
	handler := eventhandlers.NewNotificationHandler(sender)

	driverID := kernel.NewUUID()
	event := delivery.StatusChangedEvent{
		BaseEvent:      ddd.NewBaseEvent(delivery.EventStatusChanged, occurred),
		DeliveryID:     kernel.NewUUID(),
		TrackingNumber: "TRK12345678ABC",
		CustomerRef:    "customer-7",
		From:           delivery.InTransit,
		To:             delivery.Cancelled,
		DriverID:       &driverID,
		Reason:         "restaurant closed",
	}

	sender.On("SendNotification", mock.Anything, "customer-7",
		mock.MatchedBy(func(n ports.Notification) bool {
			return n.Type == eventhandlers.NotificationStatusChanged && n.Data["reason"] == "restaurant closed"
		})).Return(errors.New("broker unavailable")).Once()
	sender.On("SendNotification", mock.Anything, driverID.String(),
		mock.MatchedBy(func(n ports.Notification) bool { return n.Type == eventhandlers.NotificationDeliveryReleased })).
		Return(nil).Once()

	err := handler.Handle(context.Background(), event)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "customer-7")
	sender.AssertExpectations(t)
}

func TestNotificationHandler_DeliveredDoesNotNotifyDriver(t *testing.T) {
	sender := &MockNotificationSender{}
	handler := eventhandlers.NewNotificationHandler(sender)

	driverID := kernel.NewUUID()
	event := delivery.StatusChangedEvent{
		BaseEvent:      ddd.NewBaseEvent(delivery.EventStatusChanged, occurred),
		TrackingNumber: "TRK12345678ABC",
		CustomerRef:    "customer-7",
		From:           delivery.InTransit,
		To:             delivery.Delivered,
		DriverID:       &driverID,
	}

	sender.On("SendNotification", mock.Anything, "customer-7", mock.Anything).Return(nil).Once()

	require.NoError(t, handler.Handle(context.Background(), event))
	sender.AssertExpectations(t)
	sender.AssertNumberOfCalls(t, "SendNotification", 1)
}
