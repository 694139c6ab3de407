package models

import "time"

type SymptomLog struct {
	BaseModel
	UserID   string `gorm:"type:uuid;not null;index"`
	Symptom  string `gorm:"not null"`
	Severity int    `gorm:"not null"` // 1..10
	Notes    string
	LoggedAt time.Time `gorm:"default:now()"`
}
