package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/openrelief/portal/backend/internal/handlers"
	"github.com/openrelief/portal/backend/internal/middleware"
	"github.com/openrelief/portal/backend/internal/models"
	"github.com/openrelief/portal/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, pusher handlers.Pusher) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.User{},
		&models.Event{},
		&models.TrainingSession{},
		&models.EventRegistration{},
		&models.Notification{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	eventRepo := repositories.NewPostgresEventRepository(pgdb)
	trainingRepo := repositories.NewPostgresTrainingRepository(pgdb)
	registrationRepo := repositories.NewPostgresRegistrationRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	announcementRepo := repositories.NewMongoAnnouncementRepository(mgClient.Database("portal"))

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())

	// --- Admin routes (require admin role) ---
	admin := e.Group("/api/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.RequireAdmin())
	log.Println("JWT authentication middleware applied.")

	// User profile routes
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	// Conflict check routes (admin-facing booking form)
	conflictHandler := handlers.NewConflictHandler(eventRepo, trainingRepo)
	conflictHandler.RegisterConflictRoutes(admin)
	log.Println("Conflict routes configured.")

	// Calendar feed routes
	calendarHandler := handlers.NewCalendarHandler(eventRepo, trainingRepo)
	calendarHandler.RegisterCalendarRoutes(api)
	log.Println("Calendar routes configured.")

	// Event and registration routes
	eventHandler := handlers.NewEventHandler(eventRepo, registrationRepo, notificationRepo, userRepo, conflictHandler, pusher)
	eventHandler.RegisterEventRoutes(api, admin)
	log.Println("Event routes configured.")

	// Training session routes
	trainingHandler := handlers.NewTrainingHandler(trainingRepo, conflictHandler)
	trainingHandler.RegisterTrainingRoutes(api, admin)
	log.Println("Training routes configured.")

	// Notification poller routes
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	// Announcement routes
	announcementHandler := handlers.NewAnnouncementHandler(announcementRepo)
	announcementHandler.RegisterAnnouncementRoutes(api, admin)
	log.Println("Announcement routes configured.")

	log.Println("All routes configured.")
}
