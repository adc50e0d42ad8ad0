package commands

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/tracking"
)

// ConfirmCodeCommandHandler is the QR confirmation gate.
type ConfirmCodeCommandHandler struct {
	uowFactory UoWFactory
}

func NewConfirmCodeCommandHandler(uowFactory UoWFactory) ConfirmCodeCommandHandler {
	return ConfirmCodeCommandHandler{uowFactory: uowFactory}
}

// Handle checks the code against the locked delivery and drives the matching
// transition. A pickup code yields picked_up, a delivery code yields delivered.
func (h ConfirmCodeCommandHandler) Handle(ctx context.Context, command ConfirmCodeCommand) (delivery.Transition, error) {
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

	meta := delivery.AdvanceMeta{Location: command.Location()}
	tr, err := d.ConfirmCode(command.Kind(), command.Code(), meta, now)
	if err != nil {
		return delivery.Transition{}, err
	}

	note := string(command.Kind()) + " code confirmed"
	if err := persistTransition(ctx, uow, d, tr, tracking.ActorDriver, note, command.Location(), now); err != nil {
		return delivery.Transition{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return delivery.Transition{}, err
	}

	return tr, nil
}
