package commands

import (
	"context"
)

type EndStaleShiftsCommandHandler struct {
	uowFactory DriverUoWFactory
}

func NewEndStaleShiftsCommandHandler(uowFactory DriverUoWFactory) EndStaleShiftsCommandHandler {
	return EndStaleShiftsCommandHandler{uowFactory: uowFactory}
}

// Handle ends the shift of every on-shift driver who has not reported a
// location for the configured period and returns how many were affected.
// Only the active flag is written; a driver who pinged meanwhile is skipped.
func (h EndStaleShiftsCommandHandler) Handle(ctx context.Context, command EndStaleShiftsCommand) (int, error) {
	if err := command.Validate(); err != nil {
		return 0, err
	}

	now := utcNow()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	before := now.Add(-command.SilentFor())
	stale, err := uow.DriverRepository().ListStaleActive(ctx, before)
	if err != nil {
		return 0, err
	}

	ended := 0
	for _, drv := range stale {
		drv.EndShift(now)
		changed, err := uow.DriverRepository().EndShift(ctx, drv, before)
		if err != nil {
			return 0, err
		}
		if changed {
			ended++
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return 0, err
	}

	return ended, nil
}
