package repositories

import (
	"errors"

	"healthtrack_backend/internal/models"

	"gorm.io/gorm"
)

var ErrReferralNotFound = errors.New("referral not found")

type ReferralRepository interface {
	Create(db *gorm.DB, referral *models.Referral) error
	FindByID(db *gorm.DB, id string) (*models.Referral, error)
	FindByUser(db *gorm.DB, userID string) ([]models.Referral, error)
	UpdateStatus(db *gorm.DB, id string, status models.ReferralStatus) error
}

type ReferralRepositoryImpl struct{}

func NewReferralRepository() ReferralRepository {
	return &ReferralRepositoryImpl{}
}

func (r *ReferralRepositoryImpl) Create(db *gorm.DB, referral *models.Referral) error {
	return db.Create(referral).Error
}

func (r *ReferralRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Referral, error) {
	var referral models.Referral
	err := db.Preload("Clinic").First(&referral, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReferralNotFound
		}
		return nil, err
	}
	return &referral, nil
}

func (r *ReferralRepositoryImpl) FindByUser(db *gorm.DB, userID string) ([]models.Referral, error) {
	var referrals []models.Referral
	err := db.Preload("Clinic").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&referrals).Error
	return referrals, err
}

func (r *ReferralRepositoryImpl) UpdateStatus(db *gorm.DB, id string, status models.ReferralStatus) error {
	result := db.Model(&models.Referral{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReferralNotFound
	}
	return nil
}
