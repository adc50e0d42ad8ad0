package postgres

import (
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/driverrepo"
	"dispatch/internal/adapters/out/postgres/trackingrepo"

	"gorm.io/gorm"
)

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&driverrepo.DriverDTO{},
		&deliveryrepo.DeliveryDTO{},
		&trackingrepo.LocationSampleDTO{},
		&trackingrepo.TrackingEventDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
