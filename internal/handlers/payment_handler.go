package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/logger"
	"healthtrack_backend/internal/middleware"
	"healthtrack_backend/internal/services/payment"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	*BaseHandler
	paymentService *payment.Service
	gateway        payment.Gateway
}

func NewPaymentHandler(base *BaseHandler, paymentService *payment.Service, gateway payment.Gateway) *PaymentHandler {
	return &PaymentHandler{
		BaseHandler:    base,
		paymentService: paymentService,
		gateway:        gateway,
	}
}

func (h *PaymentHandler) RegisterRoutes(r *gin.RouterGroup) {
	payments := r.Group("/payments")
	{
		// Gateway-originated callback: no bearer auth, HMAC signature instead.
		payments.POST("/webhook", h.HandleWebhook)

		authenticated := payments.Group("")
		authenticated.Use(middleware.AuthMiddleware())
		{
			authenticated.POST("/initiate", h.InitiatePayment)
			authenticated.POST("/verify", h.VerifyPayment)
			authenticated.GET("/history", h.GetHistory)
		}
	}
}

func (h *PaymentHandler) InitiatePayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.InitiatePaymentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.paymentService.Initiate(c.Request.Context(), h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// HandleWebhook accepts asynchronous gateway notifications. The contract
// with the gateway: 2xx for everything we have dealt with (including
// duplicates and unknown references), non-2xx only for transient internal
// failures so the gateway retries later.
func (h *PaymentHandler) HandleWebhook(c *gin.Context) {
	ctx := c.Request.Context()

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		logger.CtxWithError(ctx, "webhook: failed to read body", err)
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
		return
	}

	signature := c.GetHeader("X-Paystack-Signature")
	if !h.gateway.VerifyWebhookSignature(body, signature) {
		logger.CtxWarn(ctx, "webhook: invalid signature", "ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"status": "error"})
		return
	}

	var event payment.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		logger.CtxWithError(ctx, "webhook: malformed payload", err)
		c.JSON(http.StatusBadRequest, gin.H{"status": "error"})
		return
	}

	if err := h.paymentService.HandleWebhook(ctx, h.GetDB(c), &event); err != nil {
		// Transient internal failure: non-2xx makes the gateway retry.
		logger.CtxWithError(ctx, "webhook: processing failed", err, "reference", event.Data.Reference)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Webhook processed successfully"})
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.VerifyPaymentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	resp, err := h.paymentService.Verify(c.Request.Context(), h.GetDB(c), userID, req.Reference)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandler) GetHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	transactions, err := h.paymentService.History(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transactions": transactions,
		"total":        len(transactions),
	})
}
