package payment

import (
	"context"
	"errors"
)

// GatewayStatus is the normalized charge status vocabulary. Provider-specific
// state names never leave this package.
type GatewayStatus string

const (
	GatewayStatusPending GatewayStatus = "pending"
	GatewayStatusSuccess GatewayStatus = "success"
	GatewayStatusFailed  GatewayStatus = "failed"
)

// Gateway error taxonomy. A GatewayUnavailable is retryable by the caller;
// the other two are definitive.
var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayRejected    = errors.New("payment gateway rejected the request")
	ErrGatewayAuthError   = errors.New("payment gateway authentication failed")
)

type InitializeRequest struct {
	// Minor currency units.
	Amount      int64
	Currency    string
	Email       string
	Reference   string
	CallbackURL string
}

type InitializeResult struct {
	RedirectURL string
	AccessCode  string
}

type VerifyResult struct {
	Status     GatewayStatus
	Amount     int64
	Currency   string
	GatewayRef string
	PaidAt     string // provider timestamp, RFC3339, may be empty
}

// Gateway is the payment provider adapter. It holds no state beyond the
// HTTP client; callers decide how to react to each error class.
type Gateway interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
	// VerifyWebhookSignature checks the provider signature over the raw
	// webhook body.
	VerifyWebhookSignature(body []byte, signature string) bool
}
