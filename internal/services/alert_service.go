package services

import (
	"errors"

	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/models"
	"healthtrack_backend/internal/repositories"
	"healthtrack_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AlertService struct {
	alertRepo repositories.HealthAlertRepository
}

func NewAlertService(alertRepo repositories.HealthAlertRepository) *AlertService {
	return &AlertService{alertRepo: alertRepo}
}

func (s *AlertService) ListActive(db *gorm.DB, county string) ([]models.HealthAlert, error) {
	alerts, err := s.alertRepo.FindActive(db, county)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return alerts, nil
}

func (s *AlertService) Create(db *gorm.DB, req *dto.CreateHealthAlertRequest) (*models.HealthAlert, error) {
	severity := req.Severity
	if severity == "" {
		severity = "info"
	}

	alert := &models.HealthAlert{
		Title:    req.Title,
		Message:  req.Message,
		Severity: severity,
		County:   req.County,
		IsActive: true,
	}
	if err := s.alertRepo.Create(db, alert); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return alert, nil
}

func (s *AlertService) Deactivate(db *gorm.DB, alertID string) error {
	if err := s.alertRepo.Deactivate(db, alertID); err != nil {
		if errors.Is(err, repositories.ErrHealthAlertNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	return nil
}
