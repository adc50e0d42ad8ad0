package queries

import (
	"context"
	"database/sql"

	"dispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetDriverQueryHandler struct {
	db *gorm.DB
}

func NewGetDriverQueryHandler(db *gorm.DB) GetDriverQueryHandler {
	return GetDriverQueryHandler{db: db}
}

// Handle returns the driver or errs.ErrObjectNotFound.
func (h GetDriverQueryHandler) Handle(ctx context.Context, query GetDriverQuery) (DriverView, error) {
	if err := query.Validate(); err != nil {
		return DriverView{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.account_id,
			d.name,
			d.location_latitude,
			d.location_longitude,
			d.last_location_update,
			d.available,
			d.verified,
			d.active,
			d.rating,
			d.ratings_count,
			d.total_deliveries,
			d.total_earnings,
			a.id
		FROM drivers d
		LEFT JOIN deliveries a ON a.driver_id = d.id
		WHERE d.id = ?
	`, query.driverID.Bytes()).Rows()
	if err != nil {
		return DriverView{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return DriverView{}, err
		}
		return DriverView{}, errs.NewObjectNotFoundError("driver", query.driverID.String())
	}

	var (
		view     DriverView
		id       uuid.UUID
		activeID uuid.NullUUID
		lat, lng sql.NullFloat64
	)
	err = rows.Scan(
		&id,
		&view.AccountID,
		&view.Name,
		&lat,
		&lng,
		&view.LastLocationUpdate,
		&view.Available,
		&view.Verified,
		&view.Active,
		&view.Rating,
		&view.RatingsCount,
		&view.TotalDeliveries,
		&view.TotalEarnings,
		&activeID,
	)
	if err != nil {
		return DriverView{}, err
	}

	if view.ID, err = uuidFrom(id); err != nil {
		return DriverView{}, err
	}
	if view.Location, err = optionalLocationFrom(lat, lng); err != nil {
		return DriverView{}, err
	}
	if view.ActiveDeliveryID, err = optionalUUIDFrom(activeID); err != nil {
		return DriverView{}, err
	}

	return view, rows.Err()
}
