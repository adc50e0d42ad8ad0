package commands

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
)

// CancelDeliveryCommandHandler cancels deliveries from any non-terminal status.
type CancelDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

func NewCancelDeliveryCommandHandler(uowFactory UoWFactory) CancelDeliveryCommandHandler {
	return CancelDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle cancels the delivery and frees its driver. Cancelling twice is a
// no-op; a delivered delivery yields delivery.ErrInvalidTransition.
func (h CancelDeliveryCommandHandler) Handle(ctx context.Context, command CancelDeliveryCommand) (delivery.Transition, error) {
	if err := command.Validate(); err != nil {
		return delivery.Transition{}, err
	}

	now := utcNow()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return delivery.Transition{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, command.DeliveryID())
	if err != nil {
		return delivery.Transition{}, err
	}

	tr, err := d.Cancel(command.Reason(), now)
	if err != nil {
		return delivery.Transition{}, err
	}

	if err := persistTransition(ctx, uow, d, tr, command.Actor(), command.Reason(), nil, now); err != nil {
		return delivery.Transition{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return delivery.Transition{}, err
	}

	return tr, nil
}
