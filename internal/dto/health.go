package dto

import "encoding/json"

type CreateSymptomLogRequest struct {
	Symptom  string `json:"symptom" validate:"required,min=2,max=200"`
	Severity int    `json:"severity" validate:"required,min=1,max=10"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}

type CreateHealthRecordRequest struct {
	RecordType string          `json:"record_type" validate:"required,oneof=diagnosis medication lab_result vaccination consultation"`
	Title      string          `json:"title" validate:"required,min=2,max=200"`
	Provider   string          `json:"provider" validate:"omitempty,max=200"`
	Details    json.RawMessage `json:"details"`
}

type UpdateHealthRecordRequest struct {
	Title    *string         `json:"title" validate:"omitempty,min=2,max=200"`
	Provider *string         `json:"provider" validate:"omitempty,max=200"`
	Details  json.RawMessage `json:"details"`
}

type CreateReferralRequest struct {
	ClinicID string `json:"clinic_id" validate:"required,uuid"`
	Reason   string `json:"reason" validate:"required,min=5,max=1000"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}

type UpdateReferralStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
}

type CreateHealthAlertRequest struct {
	Title    string `json:"title" validate:"required,min=2,max=200"`
	Message  string `json:"message" validate:"required,min=5"`
	Severity string `json:"severity" validate:"omitempty,oneof=info warning critical"`
	County   string `json:"county" validate:"omitempty,max=100"`
}
