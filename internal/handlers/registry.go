package handlers

// AppHandlers bundles all HTTP handlers for route registration.
type AppHandlers struct {
	AuthHandler         *AuthHandler
	UserHandler         *UserHandler
	PaymentHandler      *PaymentHandler
	SymptomHandler      *SymptomHandler
	HealthRecordHandler *HealthRecordHandler
	ClinicHandler       *ClinicHandler
	ReferralHandler     *ReferralHandler
	AlertHandler        *AlertHandler
}
