package repository

import (
	"fmt"

	"gorm.io/gorm"
)

// overlapGuardDDL installs the storage-level double-booking guard. It is
// idempotent and mirrors migrations/000001_init.up.sql.
var overlapGuardDDL = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
BEGIN
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_time_order') THEN
		ALTER TABLE bookings ADD CONSTRAINT bookings_time_order CHECK (end_time > start_time);
	END IF;
	IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'bookings_no_overlap') THEN
		ALTER TABLE bookings ADD CONSTRAINT bookings_no_overlap EXCLUDE USING gist (
			listing_id WITH =,
			tstzrange(start_time, end_time, '[)') WITH &&
		) WHERE (status IN ('pending', 'confirmed', 'completed'));
	END IF;
END
$$`,
}

// AutoMigrate creates the tables from the GORM models and installs the
// overlap constraint. Used in development; other environments run the SQL
// migrations.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&ListingModel{}, &ProfileModel{}, &BookingModel{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	for _, stmt := range overlapGuardDDL {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install overlap guard: %w", err)
		}
	}
	return nil
}
