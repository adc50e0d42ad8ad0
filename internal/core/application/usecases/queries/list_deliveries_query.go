package queries

import (
	"errors"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 500
)

var ErrListDeliveriesQueryIsNotConstructed = errors.New(
	"ListDeliveriesQuery must be created via NewListDeliveriesQuery constructor",
)

// ListDeliveriesQuery filters deliveries for dashboards. Every filter is optional.
type ListDeliveriesQuery struct {
	status   *delivery.Status
	driverID *kernel.UUID
	limit    int

	guard guard.ConstructorGuard
}

// NewListDeliveriesQuery builds a listing, newest first. A zero limit means DefaultListLimit.
func NewListDeliveriesQuery(status *delivery.Status, driverID *kernel.UUID, limit int) (ListDeliveriesQuery, error) {
	var statusErr, driverErr, limitErr error
	if status != nil {
		statusErr = status.Validate()
	}
	if driverID != nil {
		driverErr = driverID.Validate()
	}
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 0 || limit > MaxListLimit {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListLimit)
	}

	if err := errors.Join(statusErr, driverErr, limitErr); err != nil {
		return ListDeliveriesQuery{}, err
	}

	return ListDeliveriesQuery{status: status, driverID: driverID, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrListDeliveriesQueryIsNotConstructed)
}
