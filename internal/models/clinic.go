package models

import "gorm.io/datatypes"

type Clinic struct {
	BaseModel
	Name     string `gorm:"not null;index"`
	County   string `gorm:"index"`
	Address  string
	Phone    string
	Email    string
	// Offered services, e.g. ["maternity", "lab", "outpatient"]
	Services  datatypes.JSON `gorm:"type:jsonb"`
	Latitude  float64
	Longitude float64
	IsActive  bool `gorm:"default:true"`
}
