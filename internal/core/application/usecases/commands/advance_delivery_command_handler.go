package commands

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
)

// AdvanceDeliveryCommandHandler applies status transitions under a row lock.
type AdvanceDeliveryCommandHandler struct {
	uowFactory UoWFactory
}

func NewAdvanceDeliveryCommandHandler(uowFactory UoWFactory) AdvanceDeliveryCommandHandler {
	return AdvanceDeliveryCommandHandler{uowFactory: uowFactory}
}

// Handle locks the delivery, applies the transition and, on a terminal
// status, releases the driver in the same transaction.
// Advancing to the current status succeeds without writing anything.
func (h AdvanceDeliveryCommandHandler) Handle(ctx context.Context, command AdvanceDeliveryCommand) (delivery.Transition, error) {
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

	meta := delivery.AdvanceMeta{Location: command.Location(), Reason: command.Note()}
	tr, err := d.Advance(command.Target(), meta, now)
	if err != nil {
		return delivery.Transition{}, err
	}

	if err := persistTransition(ctx, uow, d, tr, command.Actor(), command.Note(), command.Location(), now); err != nil {
		return delivery.Transition{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return delivery.Transition{}, err
	}

	return tr, nil
}
