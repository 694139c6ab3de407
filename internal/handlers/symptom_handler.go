package handlers

import (
	"net/http"
	"strconv"

	"healthtrack_backend/internal/dto"
	"healthtrack_backend/internal/middleware"
	"healthtrack_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SymptomHandler struct {
	*BaseHandler
	symptomService *services.SymptomService
}

func NewSymptomHandler(base *BaseHandler, symptomService *services.SymptomService) *SymptomHandler {
	return &SymptomHandler{
		BaseHandler:    base,
		symptomService: symptomService,
	}
}

func (h *SymptomHandler) RegisterRoutes(r *gin.RouterGroup) {
	symptoms := r.Group("/symptoms")
	symptoms.Use(middleware.AuthMiddleware())
	{
		symptoms.POST("", h.CreateLog)
		symptoms.GET("", h.ListLogs)
		symptoms.DELETE("/:logId", h.DeleteLog)
	}
}

func (h *SymptomHandler) CreateLog(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateSymptomLogRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	log, err := h.symptomService.Create(h.GetDB(c), userID, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, log)
}

func (h *SymptomHandler) ListLogs(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	logs, err := h.symptomService.List(h.GetDB(c), userID, limit)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  logs,
		"total": len(logs),
	})
}

func (h *SymptomHandler) DeleteLog(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.symptomService.Delete(h.GetDB(c), userID, c.Param("logId")); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Symptom log deleted"})
}
