package models

import "time"

// RefreshToken is an opaque, server-side session token. One row per issued
// token; rotation deletes the old row and creates a new one.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"type:uuid;not null;index"`
	Token     string    `gorm:"not null;uniqueIndex"`
	ExpiresAt time.Time `gorm:"not null"`
}
