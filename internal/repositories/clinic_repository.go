package repositories

import (
	"errors"

	"healthtrack_backend/internal/models"

	"gorm.io/gorm"
)

var ErrClinicNotFound = errors.New("clinic not found")

type ClinicRepository interface {
	Create(db *gorm.DB, clinic *models.Clinic) error
	FindByID(db *gorm.DB, id string) (*models.Clinic, error)
	FindActive(db *gorm.DB, county string) ([]models.Clinic, error)
	Update(db *gorm.DB, clinic *models.Clinic) error
	Count(db *gorm.DB) (int64, error)
}

type ClinicRepositoryImpl struct{}

func NewClinicRepository() ClinicRepository {
	return &ClinicRepositoryImpl{}
}

func (r *ClinicRepositoryImpl) Create(db *gorm.DB, clinic *models.Clinic) error {
	return db.Create(clinic).Error
}

func (r *ClinicRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Clinic, error) {
	var clinic models.Clinic
	err := db.First(&clinic, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClinicNotFound
		}
		return nil, err
	}
	return &clinic, nil
}

func (r *ClinicRepositoryImpl) FindActive(db *gorm.DB, county string) ([]models.Clinic, error) {
	var clinics []models.Clinic
	q := db.Where("is_active = ?", true)
	if county != "" {
		q = q.Where("county = ?", county)
	}
	err := q.Order("name ASC").Find(&clinics).Error
	return clinics, err
}

func (r *ClinicRepositoryImpl) Update(db *gorm.DB, clinic *models.Clinic) error {
	return db.Save(clinic).Error
}

func (r *ClinicRepositoryImpl) Count(db *gorm.DB) (int64, error) {
	var count int64
	err := db.Model(&models.Clinic{}).Count(&count).Error
	return count, err
}
