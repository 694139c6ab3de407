package handlers

import (
	"net/http"

	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/middleware"
	"healthtrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type HealthRecordHandler struct {
	*BaseHandler
	recordService *services.HealthRecordService
}

func NewHealthRecordHandler(base *BaseHandler, recordService *services.HealthRecordService) *HealthRecordHandler {
	return &HealthRecordHandler{
		BaseHandler:   base,
		recordService: recordService,
	}
}

func (h *HealthRecordHandler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/records")
	records.Use(middleware.AuthMiddleware())
	{
		records.POST("", h.CreateRecord)
		records.GET("", h.ListRecords)
		records.PUT("/:recordId", h.UpdateRecord)
		records.DELETE("/:recordId", h.DeleteRecord)
	}
}

func (h *HealthRecordHandler) CreateRecord(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateHealthRecordRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	record, err := h.recordService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

func (h *HealthRecordHandler) ListRecords(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	records, err := h.recordService.List(h.GetDB(c), userID, c.Query("type"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"total":   len(records),
	})
}

func (h *HealthRecordHandler) UpdateRecord(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateHealthRecordRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	record, err := h.recordService.Update(h.GetDB(c), userID, c.Param("recordId"), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

func (h *HealthRecordHandler) DeleteRecord(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.recordService.Delete(h.GetDB(c), userID, c.Param("recordId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Health record deleted"})
}
