package handlers

import (
	"net/http"

	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/middleware"
	"healthtrack_backend/internal/models"
	"healthtrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	*BaseHandler
	alertService *services.AlertService
}

func NewAlertHandler(base *BaseHandler, alertService *services.AlertService) *AlertHandler {
	return &AlertHandler{
		BaseHandler:  base,
		alertService: alertService,
	}
}

func (h *AlertHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public advisories
	alerts := r.Group("/alerts")
	{
		alerts.GET("", h.ListAlerts)
	}

	adminAlerts := r.Group("/admin/alerts")
	adminAlerts.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		adminAlerts.POST("", h.CreateAlert)
		adminAlerts.PUT("/:alertId/deactivate", h.DeactivateAlert)
	}
}

func (h *AlertHandler) ListAlerts(c *gin.Context) {
	alerts, err := h.alertService.ListActive(h.GetDB(c), c.Query("county"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"total":  len(alerts),
	})
}

func (h *AlertHandler) CreateAlert(c *gin.Context) {
	var req dto.CreateHealthAlertRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	alert, err := h.alertService.Create(h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, alert)
}

func (h *AlertHandler) DeactivateAlert(c *gin.Context) {
	if err := h.alertService.Deactivate(h.GetDB(c), c.Param("alertId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert deactivated"})
}
