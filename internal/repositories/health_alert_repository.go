package repositories

import (
	"errors"
	"time"

	"healthtrack_backend/internal/models"

	"gorm.io/gorm"
)

var ErrHealthAlertNotFound = errors.New("health alert not found")

type HealthAlertRepository interface {
	Create(db *gorm.DB, alert *models.HealthAlert) error
	FindActive(db *gorm.DB, county string) ([]models.HealthAlert, error)
	Deactivate(db *gorm.DB, id string) error
}

type HealthAlertRepositoryImpl struct{}

func NewHealthAlertRepository() HealthAlertRepository {
	return &HealthAlertRepositoryImpl{}
}

func (r *HealthAlertRepositoryImpl) Create(db *gorm.DB, alert *models.HealthAlert) error {
	return db.Create(alert).Error
}

// FindActive returns non-expired active alerts for the county, plus
// nationwide ones (empty county).
func (r *HealthAlertRepositoryImpl) FindActive(db *gorm.DB, county string) ([]models.HealthAlert, error) {
	var alerts []models.HealthAlert
	q := db.Where("is_active = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", time.Now())
	if county != "" {
		q = q.Where("county = ? OR county = ''", county)
	}
	err := q.Order("created_at DESC").Find(&alerts).Error
	return alerts, err
}

func (r *HealthAlertRepositoryImpl) Deactivate(db *gorm.DB, id string) error {
	result := db.Model(&models.HealthAlert{}).
		Where("id = ?", id).
		Update("is_active", false)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHealthAlertNotFound
	}
	return nil
}
