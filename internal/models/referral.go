package models

type Referral struct {
	BaseModel
	UserID   string         `gorm:"type:uuid;not null;index"`
	ClinicID string         `gorm:"type:uuid;not null;index"`
	Reason   string         `gorm:"not null"`
	Status   ReferralStatus `gorm:"type:varchar(20);default:'pending'"`
	Notes    string

	// Relations
	Clinic Clinic `gorm:"foreignKey:ClinicID"`
}
