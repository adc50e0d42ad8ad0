package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetDriverQueryIsNotConstructed = errors.New(
	"GetDriverQuery must be created via NewGetDriverQuery constructor",
)

type GetDriverQuery struct {
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetDriverQuery(driverID kernel.UUID) (GetDriverQuery, error) {
	if err := driverID.Validate(); err != nil {
		return GetDriverQuery{}, err
	}
	return GetDriverQuery{driverID: driverID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDriverQuery) Validate() error {
	return q.guard.Validate(ErrGetDriverQueryIsNotConstructed)
}

// DriverView is the read model of a driver, including the delivery they are
// currently bound to.
type DriverView struct {
	ID                 kernel.UUID
	AccountID          string
	Name               string
	Location           *kernel.Location
	LastLocationUpdate *time.Time
	Available          bool
	Verified           bool
	Active             bool
	Rating             float64
	RatingsCount       int
	TotalDeliveries    int
	TotalEarnings      float64
	ActiveDeliveryID   *kernel.UUID
}
