package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"healthtrack_backend/database"
	"healthtrack_backend/internal/config"
	"healthtrack_backend/internal/email"
	"healthtrack_backend/internal/handlers"
	"healthtrack_backend/internal/logger"
	"healthtrack_backend/internal/middleware"
	"healthtrack_backend/internal/models"
	"healthtrack_backend/internal/repositories"
	"healthtrack_backend/internal/routes"
	"healthtrack_backend/internal/services"
	"healthtrack_backend/internal/services/payment"
	"healthtrack_backend/internal/validator"
	"healthtrack_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to GORM", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("Failed to migrate database schema", "error", err)
	}
	logger.Info("Database schema migrated")

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB, sqlDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("🚀 Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB, sqlDB *sql.DB) *gin.Engine {
	serviceContainer := initializeServices(cfg)

	appHandlers := initializeHandlers(serviceContainer)

	paymentWorker := workers.NewPaymentWorker(
		gormDB,
		serviceContainer.PaymentService,
		time.Duration(cfg.Payment.ReconcileIntervalMin)*time.Minute,
		time.Duration(cfg.Payment.ReconcileAfterMin)*time.Minute,
	)
	paymentWorker.Start(context.Background())
	logger.Info("Payment reconciliation worker started",
		"interval_min", cfg.Payment.ReconcileIntervalMin,
		"reconcile_after_min", cfg.Payment.ReconcileAfterMin)

	ginRouter := initializeGinRouter(gormDB)

	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config) *services.ServiceContainer {
	var emailService email.Provider
	if cfg.Email.SMTPHost != "" {
		emailService = email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
	} else {
		logger.Warn("SMTP is not configured. Email sending is disabled.")
		emailService = &NoopEmailProvider{}
	}

	gateway := payment.NewPaystackClient(cfg.Paystack.BaseURL, cfg.Paystack.SecretKey)

	userRepo := repositories.NewUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	txRepo := repositories.NewTransactionRepository()
	symptomRepo := repositories.NewSymptomLogRepository()
	recordRepo := repositories.NewHealthRecordRepository()
	clinicRepo := repositories.NewClinicRepository()
	referralRepo := repositories.NewReferralRepository()
	alertRepo := repositories.NewHealthAlertRepository()

	authService := services.NewAuthService(userRepo, refreshTokenRepo)
	userService := services.NewUserService(userRepo)
	paymentService := payment.NewService(txRepo, userRepo, gateway, emailService)
	symptomService := services.NewSymptomService(symptomRepo)
	recordService := services.NewHealthRecordService(recordRepo)
	clinicService := services.NewClinicService(clinicRepo)
	referralService := services.NewReferralService(referralRepo, clinicRepo)
	alertService := services.NewAlertService(alertRepo)

	return &services.ServiceContainer{
		AuthService:         authService,
		UserService:         userService,
		PaymentService:      paymentService,
		PaymentGateway:      gateway,
		SymptomService:      symptomService,
		HealthRecordService: recordService,
		ClinicService:       clinicService,
		ReferralService:     referralService,
		AlertService:        alertService,
		EmailService:        emailService,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, container.AuthService),
		UserHandler:         handlers.NewUserHandler(baseHandler, container.UserService),
		PaymentHandler:      handlers.NewPaymentHandler(baseHandler, container.PaymentService, container.PaymentGateway),
		SymptomHandler:      handlers.NewSymptomHandler(baseHandler, container.SymptomService),
		HealthRecordHandler: handlers.NewHealthRecordHandler(baseHandler, container.HealthRecordService),
		ClinicHandler:       handlers.NewClinicHandler(baseHandler, container.ClinicService),
		ReferralHandler:     handlers.NewReferralHandler(baseHandler, container.ReferralService),
		AlertHandler:        handlers.NewAlertHandler(baseHandler, container.AlertService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: string(hashedPassword),
		Name:         "Platform Admin",
		Role:         models.UserRoleAdmin,
		Status:       models.UserStatusActive,
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user in database: %w", err)
	}

	logger.Info("✅ Successfully created first admin user", "email", adminEmail)
	return nil
}
