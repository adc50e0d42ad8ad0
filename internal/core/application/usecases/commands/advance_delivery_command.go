package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/guard"
)

var ErrAdvanceDeliveryCommandIsNotConstructed = errors.New(
	"AdvanceDeliveryCommand must be created via NewAdvanceDeliveryCommand constructor",
)

// AdvanceDeliveryCommand moves a delivery to another status of its lifecycle.
type AdvanceDeliveryCommand struct {
	deliveryID kernel.UUID
	target     delivery.Status
	location   *kernel.Location
	note       string
	actor      tracking.Actor

	guard guard.ConstructorGuard
}

// NewAdvanceDeliveryCommand validates the target status and the optional location.
func NewAdvanceDeliveryCommand(
	deliveryID kernel.UUID,
	target delivery.Status,
	location *kernel.Location,
	note string,
	actor tracking.Actor,
) (AdvanceDeliveryCommand, error) {
	var locErr error
	if location != nil {
		locErr = location.Validate()
	}
	_, actorErr := tracking.ParseActor(string(actor))

	if err := errors.Join(deliveryID.Validate(), target.Validate(), locErr, actorErr); err != nil {
		return AdvanceDeliveryCommand{}, err
	}

	return AdvanceDeliveryCommand{
		deliveryID: deliveryID,
		target:     target,
		location:   location,
		note:       strings.TrimSpace(note),
		actor:      actor,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AdvanceDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceDeliveryCommandIsNotConstructed)
}

func (c AdvanceDeliveryCommand) DeliveryID() kernel.UUID    { return c.deliveryID }
func (c AdvanceDeliveryCommand) Target() delivery.Status    { return c.target }
func (c AdvanceDeliveryCommand) Location() *kernel.Location { return c.location }
func (c AdvanceDeliveryCommand) Note() string               { return c.note }
func (c AdvanceDeliveryCommand) Actor() tracking.Actor      { return c.actor }
