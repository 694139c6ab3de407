package models

type User struct {
	BaseModel
	Email        string     `gorm:"uniqueIndex;not null"`
	PasswordHash string     `gorm:"not null"`
	Name         string     `gorm:"not null"`
	Role         UserRole   `gorm:"type:varchar(20);default:'user'"`
	Status       UserStatus `gorm:"type:varchar(20);default:'active'"`

	// Premium entitlement. Flipped to true only as a consequence of a
	// payment transaction reaching 'success'; never downgraded here.
	IsPremium bool `gorm:"default:false"`

	// Relations
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID"`
	Transactions  []Transaction  `gorm:"foreignKey:UserID"`
	SymptomLogs   []SymptomLog   `gorm:"foreignKey:UserID"`
	HealthRecords []HealthRecord `gorm:"foreignKey:UserID"`
	Referrals     []Referral     `gorm:"foreignKey:UserID"`
}
