package models

type UserStatus string
type UserRole string
type TransactionStatus string
type ReferralStatus string
type RecordType string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"

	// Transaction status only moves forward: pending -> success | failed.
	// Terminal states are never overwritten.
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"

	ReferralStatusPending   ReferralStatus = "pending"
	ReferralStatusConfirmed ReferralStatus = "confirmed"
	ReferralStatusCompleted ReferralStatus = "completed"
	ReferralStatusCancelled ReferralStatus = "cancelled"

	RecordTypeDiagnosis    RecordType = "diagnosis"
	RecordTypeMedication   RecordType = "medication"
	RecordTypeLabResult    RecordType = "lab_result"
	RecordTypeVaccination  RecordType = "vaccination"
	RecordTypeConsultation RecordType = "consultation"
)

// IsTerminal reports whether the status is final and immutable.
func (s TransactionStatus) IsTerminal() bool {
	return s == TransactionStatusSuccess || s == TransactionStatusFailed
}
