package app

import (
	"testing"

	"healthtrack_backend/internal/config"
	"healthtrack_backend/internal/services/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-jwt-secret"
	cfg.JWT.TTL = 60
	cfg.Paystack.BaseURL = "https://api.paystack.co"
	cfg.Paystack.SecretKey = "sk_test_secret"
	cfg.Payment.Currency = "KES"
	config.AppConfig = cfg
	return cfg
}

// The gateway client is built once and shared: the payment service and the
// webhook handler must verify signatures with the same secret-keyed instance.
func TestServiceContainerExposesSingleGateway(t *testing.T) {
	cfg := testConfig()

	container := initializeServices(cfg)
	require.NotNil(t, container.PaymentGateway)
	require.NotNil(t, container.PaymentService)

	client, ok := container.PaymentGateway.(*payment.PaystackClient)
	require.True(t, ok)
	assert.Equal(t, cfg.Paystack.SecretKey, client.SecretKey)

	appHandlers := initializeHandlers(container)
	require.NotNil(t, appHandlers.PaymentHandler)
	require.NotNil(t, appHandlers.AuthHandler)
}
