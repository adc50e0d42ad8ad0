package commands

import (
	"context"

	"dispatch/internal/core/domain/model/driver"
	"dispatch/internal/core/domain/model/kernel"
)

type RegisterDriverCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewRegisterDriverCommandHandler(uowFactory DriverUoWFactory) RegisterDriverCommandHandler {
	return RegisterDriverCommandHandler{uowFactory: uowFactory}
}

// Handle creates an unverified, off-shift driver.
// Returns driver.ErrAccountAlreadyRegistered for a second registration of an account.
func (h RegisterDriverCommandHandler) Handle(ctx context.Context, command RegisterDriverCommand) (kernel.UUID, error) {
	if err := command.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	now := utcNow()

	drv, err := driver.NewDriver(kernel.NewUUID(), command.AccountID(), command.Name(), now)
	if err != nil {
		return kernel.UUID{}, err
	}
	if command.Location() != nil {
		if err := drv.UpdateLocation(*command.Location(), now); err != nil {
			return kernel.UUID{}, err
		}
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.DriverRepository().Add(ctx, drv); err != nil {
		return kernel.UUID{}, err
	}

	if err := uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return drv.ID(), nil
}
