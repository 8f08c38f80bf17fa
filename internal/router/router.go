package router

import (
	"context"
	"log"

	"firebase.google.com/go/v4/messaging"
	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/oyolcinar/dus-notify/internal/handlers"
	"github.com/oyolcinar/dus-notify/internal/middleware"
	"github.com/oyolcinar/dus-notify/internal/models"
	"github.com/oyolcinar/dus-notify/internal/push"
	"github.com/oyolcinar/dus-notify/internal/repositories"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, pgdb *gorm.DB, mgClient *mongo.Client, messagingClient *messaging.Client, jwtSecret string) {
	// AutoMigrate PostgreSQL models
	err := pgdb.AutoMigrate(
		&models.Notification{},
		&models.NotificationPreferences{},
		&models.DeviceToken{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)
	preferenceRepo := repositories.NewPostgresPreferenceRepository(pgdb)
	tokenRepo := repositories.NewPostgresDeviceTokenRepository(pgdb)
	templateRepo := repositories.NewMongoTemplateRepository(mgClient.Database("dusnotify"))

	if err := templateRepo.Seed(context.Background()); err != nil {
		log.Fatalf("Failed to seed notification templates: %v", err)
	}
	log.Println("Notification templates seeded.")

	// --- Push fanout ---
	sender := push.NewFCMSender(messagingClient)
	notifier := push.NewNotifier(notificationRepo, preferenceRepo, tokenRepo, sender)

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuth(jwtSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	preferenceHandler := handlers.NewPreferenceHandler(preferenceRepo)
	preferenceHandler.RegisterPreferenceRoutes(api)
	log.Println("Preference routes configured.")

	deviceHandler := handlers.NewDeviceHandler(tokenRepo, templateRepo, notificationRepo, notifier)
	deviceHandler.RegisterDeviceRoutes(api)
	log.Println("Device token routes configured.")
}
