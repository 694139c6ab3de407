package models

import "time"

// HealthAlert is a public health advisory shown to all users
// (outbreaks, vaccination drives, weather warnings).
type HealthAlert struct {
	BaseModel
	Title     string `gorm:"not null"`
	Message   string `gorm:"not null"`
	Severity  string `gorm:"type:varchar(10);default:'info'"` // info, warning, critical
	County    string `gorm:"index"`                           // empty = nationwide
	IsActive  bool   `gorm:"default:true;index"`
	ExpiresAt *time.Time
}
