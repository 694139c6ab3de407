package repositories

import (
	"errors"

	"healthtrack_backend/internal/models"

	"gorm.io/gorm"
)

var ErrHealthRecordNotFound = errors.New("health record not found")

type HealthRecordRepository interface {
	Create(db *gorm.DB, record *models.HealthRecord) error
	FindByID(db *gorm.DB, id string) (*models.HealthRecord, error)
	FindByUser(db *gorm.DB, userID string, recordType *models.RecordType) ([]models.HealthRecord, error)
	Update(db *gorm.DB, record *models.HealthRecord) error
	Delete(db *gorm.DB, id string) error
}

type HealthRecordRepositoryImpl struct{}

func NewHealthRecordRepository() HealthRecordRepository {
	return &HealthRecordRepositoryImpl{}
}

func (r *HealthRecordRepositoryImpl) Create(db *gorm.DB, record *models.HealthRecord) error {
	return db.Create(record).Error
}

func (r *HealthRecordRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.HealthRecord, error) {
	var record models.HealthRecord
	err := db.First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHealthRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (r *HealthRecordRepositoryImpl) FindByUser(db *gorm.DB, userID string, recordType *models.RecordType) ([]models.HealthRecord, error) {
	var records []models.HealthRecord
	q := db.Where("user_id = ?", userID)
	if recordType != nil {
		q = q.Where("record_type = ?", *recordType)
	}
	err := q.Order("recorded_at DESC").Find(&records).Error
	return records, err
}

func (r *HealthRecordRepositoryImpl) Update(db *gorm.DB, record *models.HealthRecord) error {
	return db.Save(record).Error
}

func (r *HealthRecordRepositoryImpl) Delete(db *gorm.DB, id string) error {
	result := db.Where("id = ?", id).Delete(&models.HealthRecord{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrHealthRecordNotFound
	}
	return nil
}
