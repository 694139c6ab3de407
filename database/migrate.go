package database

import (
	"fmt"

	"healthtrack_backend/internal/models"

	"gorm.io/gorm"
)

// Models returns every model the schema is built from, in FK dependency
// order. AutoMigrate and the test helpers share this list so a model cannot
// be migrated in one place and forgotten in the other.
func Models() []interface{} {
	return []interface{}{
		&models.User{},
		&models.RefreshToken{},
		&models.Transaction{},
		&models.SymptomLog{},
		&models.HealthRecord{},
		&models.Clinic{},
		&models.Referral{},
		&models.HealthAlert{},
	}
}

// AutoMigrate brings the schema up to date on the given connection.
// uuid-ossp must exist before the uuid_generate_v4() column defaults are
// created.
func AutoMigrate(db *gorm.DB) error {
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return fmt.Errorf("failed to create uuid-ossp extension: %w", err)
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}

	return nil
}
