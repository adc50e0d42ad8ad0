package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrCreateDeliveryCommandIsNotConstructed = errors.New(
	"CreateDeliveryCommand must be created via NewCreateDeliveryCommand constructor",
)

// CreateDeliveryCommand registers a delivery request for an order.
// The fee is optional; when absent it is priced by the FeePolicy from the
// straight-line pickup to dropoff distance.
//
// Example:
//
//	cmd, err := NewCreateDeliveryCommand(CreateDeliveryParams{
//	    OrderRef:    "order-42",
//	    CustomerRef: "customer-7",
//	    Pickup:      pickup,
//	    Dropoff:     dropoff,
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid delivery request: %w", err)
//	}
//	created, err := handler.Handle(ctx, cmd)
type CreateDeliveryCommand struct {
	params CreateDeliveryParams

	guard guard.ConstructorGuard
}

// CreateDeliveryParams is the input of NewCreateDeliveryCommand.
type CreateDeliveryParams struct {
	OrderRef       string
	RestaurantRef  string
	CustomerRef    string
	Pickup         kernel.Location
	PickupAddress  string
	Dropoff        kernel.Location
	DropoffAddress string
	Fee            *float64
}

// NewCreateDeliveryCommand validates references, coordinates and the fee.
func NewCreateDeliveryCommand(p CreateDeliveryParams) (CreateDeliveryCommand, error) {
	p.OrderRef = strings.TrimSpace(p.OrderRef)
	p.RestaurantRef = strings.TrimSpace(p.RestaurantRef)
	p.CustomerRef = strings.TrimSpace(p.CustomerRef)

	var feeErr error
	if p.Fee != nil && *p.Fee < 0 {
		feeErr = errs.NewValueIsOutOfRangeError("fee", *p.Fee, 0, "unbounded")
	}

	if err := errors.Join(
		requireValue("order reference", p.OrderRef),
		requireValue("customer reference", p.CustomerRef),
		p.Pickup.Validate(),
		p.Dropoff.Validate(),
		feeErr,
	); err != nil {
		return CreateDeliveryCommand{}, err
	}

	return CreateDeliveryCommand{params: p, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateDeliveryCommandIsNotConstructed)
}

// Params returns the validated input.
func (c CreateDeliveryCommand) Params() CreateDeliveryParams {
	return c.params
}

func requireValue(name, value string) error {
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	return nil
}
