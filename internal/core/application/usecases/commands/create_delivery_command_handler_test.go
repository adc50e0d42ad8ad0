package commands_test

import (
	"errors"
	"strings"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.expectTx(ctx)

	var stored *delivery.Delivery
	h.deliveries.On("Add", ctx, mock.AnythingOfType("*delivery.Delivery")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*delivery.Delivery) }).
		Return(nil).Once()
	h.history.On("AddEvent", ctx, eventWithStatus(delivery.Pending)).Return(nil).Once()

	cmd, err := commands.NewCreateDeliveryCommand(validCreateParams())
	require.NoError(t, err)

	policy := services.DefaultFeePolicy()
	result, err := commands.NewCreateDeliveryCommandHandler(h.factory, policy).Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, stored.ID(), result.ID)
	assert.True(t, strings.HasPrefix(result.TrackingNumber, delivery.TrackingPrefix))
	assert.Equal(t, policy.Calculate(pickupPoint.DistanceTo(dropoffPoint)), result.Fee)
	assert.Equal(t, delivery.Pending, stored.Status())
	assert.NotEqual(t, stored.Codes().Pickup, stored.Codes().Delivery)
	assert.Equal(t, stored.Codes(), result.Codes)
	h.assertExpectations(t)
}

func TestCreateDeliveryCommandHandler_Handle_ExplicitFee(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.expectTx(ctx)
	h.deliveries.On("Add", ctx, mock.Anything).Return(nil).Once()
	h.history.On("AddEvent", ctx, mock.Anything).Return(nil).Once()

	p := validCreateParams()
	fee := 12.75
	p.Fee = &fee
	cmd, err := commands.NewCreateDeliveryCommand(p)
	require.NoError(t, err)

	result, err := commands.NewCreateDeliveryCommandHandler(h.factory, services.DefaultFeePolicy()).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.InDelta(t, 12.75, result.Fee, 1e-9)
}

func TestCreateDeliveryCommandHandler_Handle_RetriesTrackingNumberCollision(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.uow.On("Begin", ctx).Return(nil).Twice()
	h.uow.On("Rollback", ctx).Return(nil).Twice()
	h.uow.On("Commit", ctx).Return(nil).Once()

	var numbers []string
	capture := func(args mock.Arguments) {
		numbers = append(numbers, args.Get(1).(*delivery.Delivery).TrackingNumber())
	}
	h.deliveries.On("Add", ctx, mock.Anything).Run(capture).Return(delivery.ErrTrackingNumberTaken).Once()
	h.deliveries.On("Add", ctx, mock.Anything).Run(capture).Return(nil).Once()
	h.history.On("AddEvent", ctx, mock.Anything).Return(nil).Once()

	cmd, err := commands.NewCreateDeliveryCommand(validCreateParams())
	require.NoError(t, err)

	result, err := commands.NewCreateDeliveryCommandHandler(h.factory, services.DefaultFeePolicy()).Handle(ctx, cmd)

	require.NoError(t, err)
	require.Len(t, numbers, 2)
	assert.Equal(t, numbers[1], result.TrackingNumber)
	h.assertExpectations(t)
}

func TestCreateDeliveryCommandHandler_Handle_GivesUpAfterRepeatedCollisions(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.uow.On("Begin", ctx).Return(nil).Times(3)
	h.uow.On("Rollback", ctx).Return(nil).Times(3)
	h.deliveries.On("Add", ctx, mock.Anything).Return(delivery.ErrTrackingNumberTaken).Times(3)

	cmd, err := commands.NewCreateDeliveryCommand(validCreateParams())
	require.NoError(t, err)

	_, err = commands.NewCreateDeliveryCommandHandler(h.factory, services.DefaultFeePolicy()).Handle(ctx, cmd)

	require.ErrorIs(t, err, delivery.ErrTrackingNumberTaken)
	h.uow.AssertNotCalled(t, "Commit", ctx)
	h.assertExpectations(t)
}

func TestCreateDeliveryCommandHandler_Handle_StorageError(t *testing.T) {
	ctx := t.Context()
	h := newHarness()
	h.expectAbortedTx(ctx)
	h.deliveries.On("Add", ctx, mock.Anything).Return(errors.New("connection reset")).Once()

	cmd, err := commands.NewCreateDeliveryCommand(validCreateParams())
	require.NoError(t, err)

	_, err = commands.NewCreateDeliveryCommandHandler(h.factory, services.DefaultFeePolicy()).Handle(ctx, cmd)

	require.EqualError(t, err, "connection reset")
	h.history.AssertNotCalled(t, "AddEvent", mock.Anything, mock.Anything)
}

func TestCreateDeliveryCommandHandler_Handle_ValidationError(t *testing.T) {
	h := newHarness()

	_, err := commands.NewCreateDeliveryCommandHandler(h.factory, services.DefaultFeePolicy()).
		Handle(t.Context(), commands.CreateDeliveryCommand{})

	require.ErrorIs(t, err, commands.ErrCreateDeliveryCommandIsNotConstructed)
	h.factory.AssertNotCalled(t, "Create")
}
