package repositories

import (
	"errors"

	"healthtrack_backend/internal/models"

	"gorm.io/gorm"
)

var ErrSymptomLogNotFound = errors.New("symptom log not found")

type SymptomLogRepository interface {
	Create(db *gorm.DB, log *models.SymptomLog) error
	FindByID(db *gorm.DB, id string) (*models.SymptomLog, error)
	FindByUser(db *gorm.DB, userID string, limit int) ([]models.SymptomLog, error)
	Delete(db *gorm.DB, id string) error
}

type SymptomLogRepositoryImpl struct{}

func NewSymptomLogRepository() SymptomLogRepository {
	return &SymptomLogRepositoryImpl{}
}

func (r *SymptomLogRepositoryImpl) Create(db *gorm.DB, log *models.SymptomLog) error {
	return db.Create(log).Error
}

func (r *SymptomLogRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.SymptomLog, error) {
	var log models.SymptomLog
	err := db.First(&log, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSymptomLogNotFound
		}
		return nil, err
	}
	return &log, nil
}

func (r *SymptomLogRepositoryImpl) FindByUser(db *gorm.DB, userID string, limit int) ([]models.SymptomLog, error) {
	var logs []models.SymptomLog
	q := db.Where("user_id = ?", userID).Order("logged_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&logs).Error
	return logs, err
}

func (r *SymptomLogRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.SymptomLog{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrSymptomLogNotFound
	}
	return nil
}
