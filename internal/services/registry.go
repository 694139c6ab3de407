package services

import (
	"healthtrack_backend/internal/email"
	"healthtrack_backend/internal/services/payment"
)

// ServiceContainer bundles all services for handler construction.
type ServiceContainer struct {
	AuthService         *AuthService
	UserService         *UserService
	PaymentService      *payment.Service
	PaymentGateway      payment.Gateway
	SymptomService      *SymptomService
	HealthRecordService *HealthRecordService
	ClinicService       *ClinicService
	ReferralService     *ReferralService
	AlertService        *AlertService
	EmailService        email.Provider
}
