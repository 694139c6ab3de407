package routes

import (
	"healthtrack_backend/internal/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all HTTP API routes.
func RegisterRoutes(ginRouter *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := ginRouter.Group("/api/v1")
	{
		appHandlers.AuthHandler.RegisterRoutes(api)
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.PaymentHandler.RegisterRoutes(api)
		appHandlers.SymptomHandler.RegisterRoutes(api)
		appHandlers.HealthRecordHandler.RegisterRoutes(api)
		appHandlers.ClinicHandler.RegisterRoutes(api)
		appHandlers.ReferralHandler.RegisterRoutes(api)
		appHandlers.AlertHandler.RegisterRoutes(api)
	}
}
