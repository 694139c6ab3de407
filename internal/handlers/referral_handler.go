package handlers

import (
	"net/http"

	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/middleware"
	"healthtrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ReferralHandler struct {
	*BaseHandler
	referralService *services.ReferralService
}

func NewReferralHandler(base *BaseHandler, referralService *services.ReferralService) *ReferralHandler {
	return &ReferralHandler{
		BaseHandler:     base,
		referralService: referralService,
	}
}

func (h *ReferralHandler) RegisterRoutes(r *gin.RouterGroup) {
	referrals := r.Group("/referrals")
	referrals.Use(middleware.AuthMiddleware())
	{
		referrals.POST("", h.CreateReferral)
		referrals.GET("", h.ListReferrals)
		referrals.PUT("/:referralId/status", h.UpdateStatus)
	}
}

func (h *ReferralHandler) CreateReferral(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateReferralRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	referral, err := h.referralService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, referral)
}

func (h *ReferralHandler) ListReferrals(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	referrals, err := h.referralService.List(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referrals": referrals,
		"total":     len(referrals),
	})
}

func (h *ReferralHandler) UpdateStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateReferralStatusRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	if err := h.referralService.UpdateStatus(h.GetDB(c), userID, c.Param("referralId"), &req); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Referral status updated"})
}
