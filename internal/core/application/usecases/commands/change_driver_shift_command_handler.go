package commands

import (
	"context"
)

type ChangeDriverShiftCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewChangeDriverShiftCommandHandler(uowFactory DriverUoWFactory) ChangeDriverShiftCommandHandler {
	return ChangeDriverShiftCommandHandler{uowFactory: uowFactory}
}

// Handle starts or ends the shift. Ending a shift does not touch a delivery in progress.
func (h ChangeDriverShiftCommandHandler) Handle(ctx context.Context, command ChangeDriverShiftCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := utcNow()

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

	if command.OnShift() {
		drv.StartShift(now)
	} else {
		drv.EndShift(now)
	}

	if err := uow.DriverRepository().Update(ctx, drv); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
