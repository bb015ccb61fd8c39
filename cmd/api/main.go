package main

import (
	"os"

	"github.com/chereanbot/legalaid-server/cmd/internal/domain/sqlite"
	"github.com/chereanbot/legalaid-server/cmd/internal/domain/sqlite/repository"
	appmiddleware "github.com/chereanbot/legalaid-server/cmd/internal/middleware"
	"github.com/chereanbot/legalaid-server/cmd/internal/notify"
	"github.com/chereanbot/legalaid-server/cmd/internal/routes"
	"github.com/chereanbot/legalaid-server/cmd/internal/service"
	"github.com/chereanbot/legalaid-server/cmd/internal/utils/validators"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
)

func main() {
	validate := validator.New()
	registerValidators(validate)

	if err := godotenv.Load(); err != nil {
		log.Warnf("no .env file loaded: %v", err)
	}

	dbPath := envOr("DATABASE_PATH", "./legalaid.db")
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
	backupDir := envOr("BACKUP_DIR", "./backups")
	port := envOr("PORT", "6060")

	db, err := sqlite.Init(dbPath)
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	officeRepo := repository.NewOfficeRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	backupRepo := repository.NewBackupRepository(db)

	// Getting services
	notifier := notify.LogNotifier{}
	userService := service.NewUserService(userRepo, officeRepo, validate)
	officeService := service.NewOfficeService(officeRepo, userRepo, validate)
	caseService := service.NewCaseService(caseRepo, userRepo, validate)
	assignmentService := service.NewAssignmentService(caseRepo, userRepo)
	apptService := service.NewAppointmentService(apptRepo, userRepo, validate, notifier)
	messageService := service.NewMessageService(messageRepo, caseRepo, userRepo, validate)
	paymentService := service.NewPaymentService(paymentRepo, caseRepo, userRepo, validate)
	backupService := service.NewBackupService(backupRepo, userRepo, dbPath, backupDir)

	// Getting routes
	userRoutes := routes.NewUserDefault(userService, officeService)
	caseRoutes := routes.NewCaseDefault(caseService, assignmentService)
	apptRoutes := routes.NewAppointmentDefault(apptService)
	messageRoutes := routes.NewMessageDefault(messageService)
	paymentRoutes := routes.NewPaymentDefault(paymentService)
	backupRoutes := routes.NewBackupDefault(backupService)

	e := echo.New()
	e.Use(middleware.CORS())
	e.Use(appmiddleware.RateLimit(appmiddleware.NewRateLimiter(5, 10)))

	api := e.Group("/api", appmiddleware.RequireToken(secret))

	// Appointments
	api.GET("/appointments", apptRoutes.GetAppointments)
	api.POST("/appointments", apptRoutes.CreateAppointment)
	api.PATCH("/appointments/:id", apptRoutes.UpdateAppointmentStatus)
	api.DELETE("/appointments/:id", apptRoutes.DeleteAppointment)

	// Cases and assignment
	api.GET("/cases", caseRoutes.GetCases)
	api.POST("/cases", caseRoutes.CreateCase)
	api.GET("/cases/:id", caseRoutes.GetCase)
	api.POST("/cases/:id/assign", caseRoutes.AssignLawyer)
	api.PATCH("/cases/:id/status", caseRoutes.UpdateCaseStatus)
	api.POST("/assignments/auto", caseRoutes.AutoAssign)

	// Messaging
	api.GET("/messages", messageRoutes.GetMessages)
	api.POST("/messages", messageRoutes.SendMessage)

	// Payments
	api.GET("/payments", paymentRoutes.GetPayments)
	api.POST("/payments", paymentRoutes.CreatePayment)
	api.PATCH("/payments/:id", paymentRoutes.ResolvePayment)

	// Users and offices
	api.POST("/clients", userRoutes.CreateClient)
	api.GET("/users/:id", userRoutes.GetUser)
	api.GET("/lawyers", userRoutes.GetLawyers)
	api.GET("/offices", userRoutes.GetOffices)
	api.POST("/offices", userRoutes.CreateOffice)

	// Backups
	api.GET("/backups", backupRoutes.GetBackups)
	api.POST("/backups", backupRoutes.CreateBackup)
	api.DELETE("/backups/:id", backupRoutes.DeleteBackup)

	if err := e.Start(":" + port); err != nil {
		e.Logger.Fatal(err)
	}
}

func registerValidators(validate *validator.Validate) {
	_ = validate.RegisterValidation("iso8601", validators.IsIso8601)
	_ = validate.RegisterValidation("e164", validators.IsE164)
	_ = validate.RegisterValidation("nospaces", validators.NoWhiteSpaces)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
