package queries

import (
	"database/sql"

	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

func uuidFrom(raw uuid.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(raw[:])
}

func optionalUUIDFrom(raw uuid.NullUUID) (*kernel.UUID, error) {
	if !raw.Valid {
		return nil, nil
	}
	id, err := uuidFrom(raw.UUID)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func optionalLocationFrom(lat, lng sql.NullFloat64) (*kernel.Location, error) {
	if !lat.Valid || !lng.Valid {
		return nil, nil
	}
	loc, err := kernel.NewLocation(lat.Float64, lng.Float64)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}
