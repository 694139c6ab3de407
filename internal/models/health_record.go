package models

import (
	"time"

	"gorm.io/datatypes"
)

// HealthRecord is soft-deleted: medical history is retained for audit even
// after the user removes it from their view.
type HealthRecord struct {
	BaseModelWithDeleted
	UserID     string     `gorm:"type:uuid;not null;index"`
	RecordType RecordType `gorm:"type:varchar(20);not null"`
	Title      string     `gorm:"not null"`
	Provider   string     // clinic or doctor name
	// Free-form structured payload: dosages, lab values, attachments.
	Details    datatypes.JSON `gorm:"type:jsonb"`
	RecordedAt time.Time      `gorm:"default:now()"`
}
