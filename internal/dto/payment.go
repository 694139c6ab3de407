package dto

import "time"

type InitiatePaymentRequest struct {
	// Minor currency units (cents).
	Amount   int64  `json:"amount" validate:"required,gt=0"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
	Email    string `json:"email" validate:"omitempty,email"`
}

type InitiatePaymentResponse struct {
	RedirectURL string `json:"redirect_url"`
	Reference   string `json:"reference"`
}

type VerifyPaymentRequest struct {
	Reference string `json:"reference" validate:"required"`
}

type VerifyPaymentResponse struct {
	Verified bool   `json:"verified"`
	Status   string `json:"status"`
}

type TransactionResponse struct {
	ID         string     `json:"id"`
	Reference  string     `json:"reference"`
	Amount     int64      `json:"amount"`
	Currency   string     `json:"currency"`
	Status     string     `json:"status"`
	GatewayRef string     `json:"gateway_ref,omitempty"`
	PaidAt     *time.Time `json:"paid_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
