package commands_test

import (
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDeliveredDelivery(t *testing.T, driverID kernel.UUID) *delivery.Delivery {
	t.Helper()

	d := newAssignedDelivery(t, driverID)
	now := d.Snapshot().UpdatedAt
	_, err := d.Advance(delivery.PickedUp, delivery.AdvanceMeta{}, now)
	require.NoError(t, err)
	_, err = d.Advance(delivery.Delivered, delivery.AdvanceMeta{}, now)
	require.NoError(t, err)
	d.ClearDomainEvents()
	return d
}

func TestRateDeliveryCommandHandler_Handle_UpdatesDriverAverage(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.expectTx(ctx)

	drv := newEligibleDriver(t, pickupPoint)
	d := newDeliveredDelivery(t, drv.ID())

	h.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
	h.deliveries.On("Update", ctx, d).Return(nil).Once()
	h.drivers.On("GetForUpdate", ctx, drv.ID()).Return(drv, nil).Once()
	h.drivers.On("Update", ctx, drv).Return(nil).Once()

	cmd, err := commands.NewRateDeliveryCommand(d.ID(), 4, " quick ")
	require.NoError(t, err)

	err = commands.NewRateDeliveryCommandHandler(h.factory).Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, d.CustomerRating())
	assert.Equal(t, 4, *d.CustomerRating())
	assert.InDelta(t, 4.0, drv.Rating(), 1e-9)
	assert.Equal(t, 1, drv.RatingsCount())
	h.assertExpectations(t)
}

func TestRateDeliveryCommandHandler_Handle_OnlyOnce(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.expectAbortedTx(ctx)

	d := newDeliveredDelivery(t, kernel.NewUUID())
	_, err := d.Rate(5, "", d.Snapshot().UpdatedAt)
	require.NoError(t, err)
	h.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()

	cmd, err := commands.NewRateDeliveryCommand(d.ID(), 3, "")
	require.NoError(t, err)

	err = commands.NewRateDeliveryCommandHandler(h.factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, delivery.ErrAlreadyRated)
	h.drivers.AssertNotCalled(t, "GetForUpdate", mock.Anything, mock.Anything)
}

func TestRateDeliveryCommandHandler_Handle_NotDelivered(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.expectAbortedTx(ctx)

	d := newAssignedDelivery(t, kernel.NewUUID())
	h.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()

	cmd, err := commands.NewRateDeliveryCommand(d.ID(), 5, "")
	require.NoError(t, err)

	err = commands.NewRateDeliveryCommandHandler(h.factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, delivery.ErrInvalidState)
}

func TestNewRateDeliveryCommand_RatingRange(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		_, err := commands.NewRateDeliveryCommand(kernel.NewUUID(), rating, "")
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange, "rating %d", rating)
	}
}

func TestRegenerateCodesCommandHandler_Handle(t *testing.T) {
	t.Run("replaces both codes", func(t *testing.T) {
		ctx := t.Context()
		h := newHarness()
		h.expectTx(ctx)

		d := newAssignedDelivery(t, kernel.NewUUID())
		before := d.Codes()
		h.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()
		h.deliveries.On("Update", ctx, d).Return(nil).Once()
		h.history.On("AddEvent", ctx, eventWithStatus(delivery.Assigned)).Return(nil).Once()

		cmd, err := commands.NewRegenerateCodesCommand(d.ID())
		require.NoError(t, err)

		codes, err := commands.NewRegenerateCodesCommandHandler(h.factory).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.NotEqual(t, before.Pickup, codes.Pickup)
		assert.NotEqual(t, before.Delivery, codes.Delivery)
		assert.Equal(t, codes, d.Codes())
		h.assertExpectations(t)
	})

	t.Run("terminal delivery is rejected", func(t *testing.T) {
		ctx := t.Context()
		h := newHarness()
		h.expectAbortedTx(ctx)

		d := newDeliveredDelivery(t, kernel.NewUUID())
		h.deliveries.On("GetForUpdate", ctx, d.ID()).Return(d, nil).Once()

		cmd, err := commands.NewRegenerateCodesCommand(d.ID())
		require.NoError(t, err)

		_, err = commands.NewRegenerateCodesCommandHandler(h.factory).Handle(ctx, cmd)

		require.ErrorIs(t, err, delivery.ErrInvalidState)
	})
}
