package services

import (
	"errors"

	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/models"
	"healthtrack_backend/internal/repositories"
	"healthtrack_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ReferralService struct {
	referralRepo repositories.ReferralRepository
	clinicRepo   repositories.ClinicRepository
}

func NewReferralService(referralRepo repositories.ReferralRepository, clinicRepo repositories.ClinicRepository) *ReferralService {
	return &ReferralService{
		referralRepo: referralRepo,
		clinicRepo:   clinicRepo,
	}
}

func (s *ReferralService) Create(db *gorm.DB, userID string, req *dto.CreateReferralRequest) (*models.Referral, error) {
	if _, err := s.clinicRepo.FindByID(db, req.ClinicID); err != nil {
		if errors.Is(err, repositories.ErrClinicNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}

	referral := &models.Referral{
		UserID:   userID,
		ClinicID: req.ClinicID,
		Reason:   req.Reason,
		Status:   models.ReferralStatusPending,
		Notes:    req.Notes,
	}
	if err := s.referralRepo.Create(db, referral); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return referral, nil
}

func (s *ReferralService) List(db *gorm.DB, userID string) ([]models.Referral, error) {
	referrals, err := s.referralRepo.FindByUser(db, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return referrals, nil
}

func (s *ReferralService) UpdateStatus(db *gorm.DB, userID, referralID string, req *dto.UpdateReferralStatusRequest) error {
	referral, err := s.referralRepo.FindByID(db, referralID)
	if err != nil {
		if errors.Is(err, repositories.ErrReferralNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if referral.UserID != userID {
		return apperrors.ErrReferralAccessDenied
	}

	if err := s.referralRepo.UpdateStatus(db, referralID, models.ReferralStatus(req.Status)); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
