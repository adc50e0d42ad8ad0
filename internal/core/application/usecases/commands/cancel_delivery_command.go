package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/guard"
)

var ErrCancelDeliveryCommandIsNotConstructed = errors.New(
	"CancelDeliveryCommand must be created via NewCancelDeliveryCommand constructor",
)

type CancelDeliveryCommand struct {
	deliveryID kernel.UUID
	reason     string
	actor      tracking.Actor

	guard guard.ConstructorGuard
}

func NewCancelDeliveryCommand(deliveryID kernel.UUID, reason string, actor tracking.Actor) (CancelDeliveryCommand, error) {
	_, actorErr := tracking.ParseActor(string(actor))
	if err := errors.Join(deliveryID.Validate(), actorErr); err != nil {
		return CancelDeliveryCommand{}, err
	}

	return CancelDeliveryCommand{
		deliveryID: deliveryID,
		reason:     strings.TrimSpace(reason),
		actor:      actor,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CancelDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCancelDeliveryCommandIsNotConstructed)
}

func (c CancelDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c CancelDeliveryCommand) Reason() string          { return c.reason }
func (c CancelDeliveryCommand) Actor() tracking.Actor   { return c.actor }
