package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// PaystackClient implements Gateway against the Paystack REST API
// (reference + verify flow).
type PaystackClient struct {
	BaseURL    string
	SecretKey  string
	HTTPClient *http.Client
}

func NewPaystackClient(baseURL, secretKey string) *PaystackClient {
	return &PaystackClient{
		BaseURL:   baseURL,
		SecretKey: secretKey,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// Paystack wire shapes. Kept private: callers only see the normalized types.
type paystackInitRequest struct {
	Amount      int64  `json:"amount"`
	Email       string `json:"email"`
	Currency    string `json:"currency"`
	Reference   string `json:"reference"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type paystackInitResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		ID       int64  `json:"id"`
		Status   string `json:"status"` // "success", "failed", "abandoned", "pending", "ongoing"
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		PaidAt   string `json:"paid_at"`
	} `json:"data"`
}

func (p *PaystackClient) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	body, err := json.Marshal(paystackInitRequest{
		Amount:      req.Amount,
		Email:       req.Email,
		Currency:    req.Currency,
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPClient.Do(httpReq)
	if err != nil {
		// Transport errors and timeouts are retryable, never a definitive
		// failure signal.
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if err := p.classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var initResp paystackInitResponse
	if err := json.NewDecoder(resp.Body).Decode(&initResp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrGatewayUnavailable, err)
	}
	if !initResp.Status || initResp.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrGatewayRejected, initResp.Message)
	}

	return &InitializeResult{
		RedirectURL: initResp.Data.AuthorizationURL,
		AccessCode:  initResp.Data.AccessCode,
	}, nil
}

func (p *PaystackClient) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.SecretKey)

	resp, err := p.HTTPClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if err := p.classifyStatus(resp.StatusCode); err != nil {
		return nil, err
	}

	var verifyResp paystackVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verifyResp); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrGatewayUnavailable, err)
	}
	if !verifyResp.Status {
		return nil, fmt.Errorf("%w: %s", ErrGatewayRejected, verifyResp.Message)
	}

	return &VerifyResult{
		Status:     normalizeStatus(verifyResp.Data.Status),
		Amount:     verifyResp.Data.Amount,
		Currency:   verifyResp.Data.Currency,
		GatewayRef: fmt.Sprintf("%d", verifyResp.Data.ID),
		PaidAt:     verifyResp.Data.PaidAt,
	}, nil
}

// VerifyWebhookSignature checks the X-Paystack-Signature header: HMAC-SHA512
// of the raw body keyed with the secret key, hex-encoded.
func (p *PaystackClient) VerifyWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(p.SecretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (p *PaystackClient) classifyStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: http %d", ErrGatewayAuthError, code)
	case code >= 400 && code < 500:
		return fmt.Errorf("%w: http %d", ErrGatewayRejected, code)
	default:
		return fmt.Errorf("%w: http %d", ErrGatewayUnavailable, code)
	}
}

// normalizeStatus maps provider state names onto the closed vocabulary.
// Anything we do not positively recognize as terminal stays pending.
func normalizeStatus(providerStatus string) GatewayStatus {
	switch providerStatus {
	case "success":
		return GatewayStatusSuccess
	case "failed", "abandoned", "reversed":
		return GatewayStatusFailed
	default:
		return GatewayStatusPending
	}
}
