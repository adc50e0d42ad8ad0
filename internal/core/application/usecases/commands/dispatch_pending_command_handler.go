package commands

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/services"
)

// DispatchPendingResult counts the outcome of one sweep.
type DispatchPendingResult struct {
	Examined   int
	Dispatched int
	Waiting    int
}

// DispatchPendingCommandHandler sweeps pending deliveries through the dispatcher.
type DispatchPendingCommandHandler struct {
	uowFactory UoWFactory
	dispatcher DispatchDeliveryCommandHandler
}

func NewDispatchPendingCommandHandler(
	uowFactory UoWFactory,
	dispatcher DispatchDeliveryCommandHandler,
) DispatchPendingCommandHandler {
	return DispatchPendingCommandHandler{uowFactory: uowFactory, dispatcher: dispatcher}
}

// Handle dispatches each pending delivery independently. Deliveries with no
// eligible driver, or claimed meanwhile, are skipped; any other error stops the sweep.
func (h DispatchPendingCommandHandler) Handle(ctx context.Context, command DispatchPendingCommand) (DispatchPendingResult, error) {
	if err := command.Validate(); err != nil {
		return DispatchPendingResult{}, err
	}

	pending, err := h.uowFactory.Create().DeliveryRepository().ListPending(ctx, command.BatchSize())
	if err != nil {
		return DispatchPendingResult{}, err
	}

	var result DispatchPendingResult
	for _, d := range pending {
		result.Examined++

		cmd, err := NewDispatchDeliveryCommand(d.ID())
		if err != nil {
			return result, err
		}

		_, err = h.dispatcher.Handle(ctx, cmd)
		switch {
		case err == nil:
			result.Dispatched++
		case errors.Is(err, services.ErrNoEligibleDriver), errors.Is(err, delivery.ErrAlreadyClaimed):
			result.Waiting++
		default:
			return result, err
		}
	}

	return result, nil
}
