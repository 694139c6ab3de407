package handlers

import (
	"net/http"

	"healthtrack_backend/internal/middleware"
	"healthtrack_backend/internal/models"
	"healthtrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type ClinicHandler struct {
	*BaseHandler
	clinicService *services.ClinicService
}

func NewClinicHandler(base *BaseHandler, clinicService *services.ClinicService) *ClinicHandler {
	return &ClinicHandler{
		BaseHandler:   base,
		clinicService: clinicService,
	}
}

func (h *ClinicHandler) RegisterRoutes(r *gin.RouterGroup) {
	// Public directory
	clinics := r.Group("/clinics")
	{
		clinics.GET("", h.ListClinics)
		clinics.GET("/:clinicId", h.GetClinic)
	}

	adminClinics := r.Group("/admin/clinics")
	adminClinics.Use(middleware.AuthMiddleware(), middleware.RoleMiddleware(models.UserRoleAdmin))
	{
		adminClinics.POST("", h.CreateClinic)
	}
}

func (h *ClinicHandler) ListClinics(c *gin.Context) {
	clinics, err := h.clinicService.List(h.GetDB(c), c.Query("county"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clinics": clinics,
		"total":   len(clinics),
	})
}

func (h *ClinicHandler) GetClinic(c *gin.Context) {
	clinic, err := h.clinicService.Get(h.GetDB(c), c.Param("clinicId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, clinic)
}

func (h *ClinicHandler) CreateClinic(c *gin.Context) {
	var clinic models.Clinic
	if err := c.ShouldBindJSON(&clinic); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	if err := h.clinicService.CreateClinic(h.GetDB(c), &clinic); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, clinic)
}
