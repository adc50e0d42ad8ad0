package commands

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/tracking"
)

// RegenerateCodesCommandHandler replaces leaked or lost confirmation codes.
type RegenerateCodesCommandHandler struct {
	uowFactory UoWFactory
}

func NewRegenerateCodesCommandHandler(uowFactory UoWFactory) RegenerateCodesCommandHandler {
	return RegenerateCodesCommandHandler{uowFactory: uowFactory}
}

// Handle issues two new codes. Terminal deliveries are rejected with delivery.ErrInvalidState.
func (h RegenerateCodesCommandHandler) Handle(ctx context.Context, command RegenerateCodesCommand) (delivery.Codes, error) {
	if err := command.Validate(); err != nil {
		return delivery.Codes{}, err
	}

	codes, err := delivery.NewCodes()
	if err != nil {
		return delivery.Codes{}, err
	}

	now := utcNow()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return delivery.Codes{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := uow.DeliveryRepository().GetForUpdate(ctx, command.DeliveryID())
	if err != nil {
		return delivery.Codes{}, err
	}

	if err := d.RegenerateCodes(codes, now); err != nil {
		return delivery.Codes{}, err
	}

	if err := uow.DeliveryRepository().Update(ctx, d); err != nil {
		return delivery.Codes{}, err
	}

	if err := appendEvent(ctx, uow, d.ID(), d.Status(), nil, "confirmation codes regenerated", tracking.ActorAdmin, now); err != nil {
		return delivery.Codes{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return delivery.Codes{}, err
	}

	return d.Codes(), nil
}
