package commands_test

import (
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDeclineHandler(h *harness) commands.DeclineDeliveryCommandHandler {
	return commands.NewDeclineDeliveryCommandHandler(
		h.factory,
		services.NewDriverAssigner(services.DefaultAssignmentConfig()),
		services.NewETAEstimator(nil, 30, time.Second),
	)
}

func TestDeclineDeliveryCommandHandler_Handle_ReassignsToNextDriver(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.expectTx(ctx)

	old := newBusyDriver(t, pickupPoint)
	next := newEligibleDriver(t, kernel.MustNewLocation(55.7600, 37.6173))
	d := newAssignedDelivery(t, old.ID())

	h.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	h.drivers.On("GetForUpdate", ctx, old.ID()).Return(old, nil).Once()
	h.drivers.On("Update", ctx, old).Return(nil).Once()
	h.drivers.On("ListCandidates", ctx, mock.Anything).
		Return([]*driver.Driver{cloneDriver(t, old, func(s *driver.Snapshot) { s.Available = true }), next}, nil).Once()
	h.drivers.On("GetForUpdate", ctx, next.ID()).Return(next, nil).Once()
	h.drivers.On("Occupy", ctx, next).Return(nil).Once()
	h.deliveries.On("Reassign", ctx, d, old.ID()).Return(nil).Once()
	h.history.On("AddEvent", ctx, eventWithStatus(delivery.Pending)).Return(nil).Once()
	h.history.On("AddEvent", ctx, eventWithStatus(delivery.Assigned)).Return(nil).Once()

	cmd, err := commands.NewDeclineDeliveryCommand(d.ID(), old.ID())
	require.NoError(t, err)

	result, err := newDeclineHandler(h).Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, result.ReassignedTo)
	assert.Equal(t, next.ID(), *result.ReassignedTo)
	assert.True(t, d.IsAssignedTo(next.ID()))
	assert.True(t, d.HasDeclined(old.ID()))
	assert.NotNil(t, d.EstimatedDeliveryTime())
	assert.True(t, old.IsAvailable())
	assert.False(t, next.IsAvailable())
	h.assertExpectations(t)
}

func TestDeclineDeliveryCommandHandler_Handle_StaysPendingWithoutCandidates(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.expectTx(ctx)

	old := newBusyDriver(t, pickupPoint)
	d := newAssignedDelivery(t, old.ID())

	h.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	h.drivers.On("GetForUpdate", ctx, old.ID()).Return(old, nil).Once()
	h.drivers.On("Update", ctx, old).Return(nil).Once()
	h.drivers.On("ListCandidates", ctx, mock.Anything).Return([]*driver.Driver{}, nil).Once()
	h.deliveries.On("Reassign", ctx, d, old.ID()).Return(nil).Once()
	h.history.On("AddEvent", ctx, eventWithStatus(delivery.Pending)).Return(nil).Once()

	cmd, err := commands.NewDeclineDeliveryCommand(d.ID(), old.ID())
	require.NoError(t, err)

	result, err := newDeclineHandler(h).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Nil(t, result.ReassignedTo)
	assert.Equal(t, delivery.Pending, d.Status())
	assert.Nil(t, d.DriverID())
	h.assertExpectations(t)
}

func TestDeclineDeliveryCommandHandler_Handle_SkipsCandidateTakenMeanwhile(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.expectTx(ctx)

	old := newBusyDriver(t, pickupPoint)
	taken := newEligibleDriver(t, pickupPoint)
	d := newAssignedDelivery(t, old.ID())

	h.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	h.drivers.On("GetForUpdate", ctx, old.ID()).Return(old, nil).Once()
	h.drivers.On("Update", ctx, old).Return(nil).Once()
	h.drivers.On("ListCandidates", ctx, mock.Anything).Return([]*driver.Driver{taken}, nil).Once()
	h.drivers.On("GetForUpdate", ctx, taken.ID()).
		Return(cloneDriver(t, taken, func(s *driver.Snapshot) { s.Available = false }), nil).Once()
	h.deliveries.On("Reassign", ctx, d, old.ID()).Return(nil).Once()
	h.history.On("AddEvent", ctx, eventWithStatus(delivery.Pending)).Return(nil).Once()

	cmd, err := commands.NewDeclineDeliveryCommand(d.ID(), old.ID())
	require.NoError(t, err)

	result, err := newDeclineHandler(h).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Nil(t, result.ReassignedTo)
	h.drivers.AssertNotCalled(t, "Occupy", mock.Anything, mock.Anything)
	h.assertExpectations(t)
}

func TestDeclineDeliveryCommandHandler_Handle_OnlyAssignedDriverMayDecline(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.expectAbortedTx(ctx)

	d := newAssignedDelivery(t, kernel.NewUUID())
	h.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()

	cmd, err := commands.NewDeclineDeliveryCommand(d.ID(), kernel.NewUUID())
	require.NoError(t, err)

	_, err = newDeclineHandler(h).Handle(ctx, cmd)

	require.ErrorIs(t, err, delivery.ErrInvalidState)
	h.drivers.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}

func TestDeclineDeliveryCommandHandler_Handle_LostRace(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.expectAbortedTx(ctx)

	old := newBusyDriver(t, pickupPoint)
	d := newAssignedDelivery(t, old.ID())

	h.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	h.drivers.On("GetForUpdate", ctx, old.ID()).Return(old, nil).Once()
	h.drivers.On("Update", ctx, old).Return(nil).Once()
	h.drivers.On("ListCandidates", ctx, mock.Anything).Return([]*driver.Driver{}, nil).Once()
	h.deliveries.On("Reassign", ctx, d, old.ID()).Return(delivery.ErrAlreadyClaimed).Once()

	cmd, err := commands.NewDeclineDeliveryCommand(d.ID(), old.ID())
	require.NoError(t, err)

	_, err = newDeclineHandler(h).Handle(ctx, cmd)

	require.ErrorIs(t, err, delivery.ErrAlreadyClaimed)
	h.uow.AssertNotCalled(t, "Commit", ctx)
}
