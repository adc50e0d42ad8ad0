package commands

import (
	"context"
)

type VerifyDriverCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewVerifyDriverCommandHandler(uowFactory DriverUoWFactory) VerifyDriverCommandHandler {
	return VerifyDriverCommandHandler{uowFactory: uowFactory}
}

// Handle marks the driver's documents as accepted. Verifying twice is harmless.
func (h VerifyDriverCommandHandler) Handle(ctx context.Context, command VerifyDriverCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	drv, err := uow.DriverRepository().GetForUpdate(ctx, command.DriverID())
	if err != nil {
		return err
	}

	drv.Verify(utcNow())

	if err := uow.DriverRepository().Update(ctx, drv); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
