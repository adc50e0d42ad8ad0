package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetDeliveryProgressQueryIsNotConstructed = errors.New(
	"GetDeliveryProgressQuery must be created via NewGetDeliveryProgressQuery constructor",
)

// GetDeliveryProgressQuery asks how far along its route a delivery is.
// Without explicit coordinates the last known driver position is used.
type GetDeliveryProgressQuery struct {
	deliveryID kernel.UUID
	current    *kernel.Location

	guard guard.ConstructorGuard
}

func NewGetDeliveryProgressQuery(deliveryID kernel.UUID, current *kernel.Location) (GetDeliveryProgressQuery, error) {
	var locErr error
	if current != nil {
		locErr = current.Validate()
	}
	if err := errors.Join(deliveryID.Validate(), locErr); err != nil {
		return GetDeliveryProgressQuery{}, err
	}
	return GetDeliveryProgressQuery{deliveryID: deliveryID, current: current, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDeliveryProgressQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryProgressQueryIsNotConstructed)
}
