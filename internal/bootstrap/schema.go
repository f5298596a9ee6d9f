package bootstrap

import (
	"fmt"

	"food-donation-be/internal/model"

	"gorm.io/gorm"
)

func Models() []interface{} {
	return model.All()
}

// Migrate creates or alters every table. It runs on any GORM dialect.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(model.All()...)
}

var postgresExtensions = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`CREATE EXTENSION IF NOT EXISTS pg_trgm`,
}

// postgresIndexes back the browse filters: effective availability is status
// plus expiry, and location search is a case-insensitive substring match.
var postgresIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_donations_status_expiry ON donations (status, expiry_date, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_donations_city_trgm ON donations USING gin (lower(pickup_city) gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_donations_food_name_trgm ON donations USING gin (food_name gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_waste_logs_user_date ON waste_logs (user_id, date)`,
}

// MigratePostgres runs Migrate plus the extensions and indexes AutoMigrate
// cannot express. Extra statements that fail are reported, not fatal.
func MigratePostgres(db *gorm.DB) (warnings []error, err error) {
	for _, stmt := range postgresExtensions {
		if err := db.Exec(stmt).Error; err != nil {
			warnings = append(warnings, fmt.Errorf("%s: %w", stmt, err))
		}
	}
	if err := Migrate(db); err != nil {
		return warnings, err
	}
	for _, stmt := range postgresIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			warnings = append(warnings, fmt.Errorf("%s: %w", stmt, err))
		}
	}
	return warnings, nil
}
