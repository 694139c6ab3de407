package services

import (
	"errors"
	"time"

	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/models"
	"healthtrack_backend/internal/repositories"
	"healthtrack_backend/pkg/apperrors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type HealthRecordService struct {
	recordRepo repositories.HealthRecordRepository
}

func NewHealthRecordService(recordRepo repositories.HealthRecordRepository) *HealthRecordService {
	return &HealthRecordService{recordRepo: recordRepo}
}

func (s *HealthRecordService) Create(db *gorm.DB, userID string, req *dto.CreateHealthRecordRequest) (*models.HealthRecord, error) {
	record := &models.HealthRecord{
		UserID:     userID,
		RecordType: models.RecordType(req.RecordType),
		Title:      req.Title,
		Provider:   req.Provider,
		RecordedAt: time.Now(),
	}
	if len(req.Details) > 0 {
		record.Details = datatypes.JSON(req.Details)
	}

	if err := s.recordRepo.Create(db, record); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return record, nil
}

func (s *HealthRecordService) List(db *gorm.DB, userID string, recordType string) ([]models.HealthRecord, error) {
	var rt *models.RecordType
	if recordType != "" {
		t := models.RecordType(recordType)
		rt = &t
	}

	records, err := s.recordRepo.FindByUser(db, userID, rt)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return records, nil
}

func (s *HealthRecordService) Update(db *gorm.DB, userID, recordID string, req *dto.UpdateHealthRecordRequest) (*models.HealthRecord, error) {
	record, err := s.getOwned(db, userID, recordID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		record.Title = *req.Title
	}
	if req.Provider != nil {
		record.Provider = *req.Provider
	}
	if len(req.Details) > 0 {
		record.Details = datatypes.JSON(req.Details)
	}

	if err := s.recordRepo.Update(db, record); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return record, nil
}

func (s *HealthRecordService) Delete(db *gorm.DB, userID, recordID string) error {
	if _, err := s.getOwned(db, userID, recordID); err != nil {
		return err
	}

	if err := s.recordRepo.Delete(db, recordID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *HealthRecordService) getOwned(db *gorm.DB, userID, recordID string) (*models.HealthRecord, error) {
	record, err := s.recordRepo.FindByID(db, recordID)
	if err != nil {
		if errors.Is(err, repositories.ErrHealthRecordNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	if record.UserID != userID {
		return nil, apperrors.NewForbiddenError("You do not have access to this health record")
	}
	return record, nil
}
