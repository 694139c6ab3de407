package services

import (
	"errors"

	"healthtrack_backend/internal/models"
	"healthtrack_backend/internal/repositories"
	"healthtrack_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ClinicService struct {
	clinicRepo repositories.ClinicRepository
}

func NewClinicService(clinicRepo repositories.ClinicRepository) *ClinicService {
	return &ClinicService{clinicRepo: clinicRepo}
}

func (s *ClinicService) List(db *gorm.DB, county string) ([]models.Clinic, error) {
	clinics, err := s.clinicRepo.FindActive(db, county)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return clinics, nil
}

func (s *ClinicService) Get(db *gorm.DB, clinicID string) (*models.Clinic, error) {
	clinic, err := s.clinicRepo.FindByID(db, clinicID)
	if err != nil {
		if errors.Is(err, repositories.ErrClinicNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return clinic, nil
}

// CreateClinic is admin-only; role enforcement lives in the route middleware.
func (s *ClinicService) CreateClinic(db *gorm.DB, clinic *models.Clinic) error {
	if err := s.clinicRepo.Create(db, clinic); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
