package database

import (
	"reflect"
	"testing"

	"healthtrack_backend/internal/models"

	"github.com/stretchr/testify/assert"
)

// Guards the migration list: every persisted model must be migrated, or a
// fresh deployment fails at the first query against the missing table.
func TestModelsCoversEveryPersistedModel(t *testing.T) {
	required := []interface{}{
		&models.User{},
		&models.RefreshToken{},
		&models.Transaction{},
		&models.SymptomLog{},
		&models.HealthRecord{},
		&models.Clinic{},
		&models.Referral{},
		&models.HealthAlert{},
	}

	migrated := make(map[reflect.Type]bool)
	for _, m := range Models() {
		migrated[reflect.TypeOf(m)] = true
	}

	for _, m := range required {
		assert.True(t, migrated[reflect.TypeOf(m)], "model %T is missing from the migration list", m)
	}
}
