package models

import "time"

// Transaction is a single payment attempt. Exactly one row exists per
// reference; the reference correlates our record with the gateway's.
type Transaction struct {
	BaseModel
	UserID string `gorm:"type:uuid;not null;index"`

	// Externally visible correlation key, generated at creation, never reused.
	Reference string `gorm:"uniqueIndex;not null"`

	// Minor currency units (cents). Immutable once created.
	Amount   int64  `gorm:"not null"`
	Currency string `gorm:"type:varchar(3);not null"`

	Status TransactionStatus `gorm:"type:varchar(10);default:'pending';index"`

	// The gateway's own id for this charge, recorded once known.
	GatewayRef string
	PaidAt     *time.Time

	// Relations
	User User `gorm:"foreignKey:UserID"`
}
