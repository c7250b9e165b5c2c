package database

import (
	"bookit/internal/hostrequests"
	"bookit/internal/users"
	"bookit/internal/venues"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&users.User{},
		&hostrequests.HostRequest{},
		&venues.Venue{},
	); err != nil {
		return err
	}
	return migrateIndexes(db)
}

// migrateIndexes adds the lookup indexes AutoMigrate does not cover.
func migrateIndexes(db *gorm.DB) error {
	// venues are keyed by their parent host request; cascade deletes and the
	// projector upsert both look up by this column
	return db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_venues_host_request_id
		ON venues (host_request_id);
	`).Error
}
