package services

import (
	"errors"
	"time"

	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/models"
	"healthtrack_backend/internal/repositories"
	"healthtrack_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type SymptomService struct {
	symptomRepo repositories.SymptomLogRepository
}

func NewSymptomService(symptomRepo repositories.SymptomLogRepository) *SymptomService {
	return &SymptomService{symptomRepo: symptomRepo}
}

func (s *SymptomService) Create(db *gorm.DB, userID string, req *dto.CreateSymptomLogRequest) (*models.SymptomLog, error) {
	log := &models.SymptomLog{
		UserID:   userID,
		Symptom:  req.Symptom,
		Severity: req.Severity,
		Notes:    req.Notes,
		LoggedAt: time.Now(),
	}
	if err := s.symptomRepo.Create(db, log); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return log, nil
}

func (s *SymptomService) List(db *gorm.DB, userID string, limit int) ([]models.SymptomLog, error) {
	logs, err := s.symptomRepo.FindByUser(db, userID, limit)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return logs, nil
}

// Delete removes a log entry. Only the owner may delete it.
func (s *SymptomService) Delete(db *gorm.DB, userID, logID string) error {
	log, err := s.symptomRepo.FindByID(db, logID)
	if err != nil {
		if errors.Is(err, repositories.ErrSymptomLogNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}
	if log.UserID != userID {
		return apperrors.NewForbiddenError("You do not have access to this symptom log")
	}

	if err := s.symptomRepo.Delete(db, logID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}
