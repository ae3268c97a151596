package router

import (
	"log"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/anonto42/eventra/backend/internal/dispatch"
	"github.com/anonto42/eventra/backend/internal/handlers"
	"github.com/anonto42/eventra/backend/internal/middleware"
	"github.com/anonto42/eventra/backend/internal/models"
	"github.com/anonto42/eventra/backend/internal/push"
	"github.com/anonto42/eventra/backend/internal/repositories"
	"github.com/anonto42/eventra/backend/pkg/config"
	"github.com/anonto42/eventra/backend/pkg/firebase"
)

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.CORS())
	log.Println("Global middleware configured.")
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, db *config.DB, firebaseApp *firebase.App) {
	// AutoMigrate PostgreSQL models
	err := db.Postgres.AutoMigrate(
		&models.User{},
		&models.StaffMember{},
		&models.Service{},
		&models.Offer{},
		&models.Testimonial{},
	)
	if err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}
	log.Println("PostgreSQL auto-migrations completed for all models.")

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	mdb := db.Mongo.Database(cfg.MongoDBName)
	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	staffRepo := repositories.NewPostgresStaffRepository(db.Postgres)
	serviceRepo := repositories.NewPostgresServiceRepository(db.Postgres)
	offerRepo := repositories.NewPostgresOfferRepository(db.Postgres)
	testimonialRepo := repositories.NewPostgresTestimonialRepository(db.Postgres)
	conversationRepo := repositories.NewMongoConversationRepository(mdb)
	notificationRepo := repositories.NewMongoNotificationRepository(mdb)

	// --- Broadcast dispatcher (FCM push + in-app records) ---
	sender := push.NewFCMSender(firebaseApp.MessagingClient)
	dispatcher := dispatch.New(userRepo, notificationRepo, sender, cfg.PushBatchSize)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(userRepo, firebaseApp.AuthClient)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Firebase-token routes (mobile clients before a local session exists) ---
	deviceGroup := e.Group("/api/v1/device")
	deviceGroup.Use(middleware.FirebaseAuthMiddleware(firebaseApp.AuthClient))
	userHandler := handlers.NewUserHandler(userRepo)
	userHandler.RegisterDeviceRoutes(deviceGroup)
	log.Println("Device routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware())
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	userHandler.RegisterUserRoutes(api)
	log.Println("User routes configured.")

	conversationHandler := handlers.NewConversationHandler(conversationRepo, userRepo)
	conversationHandler.RegisterConversationRoutes(api)
	log.Println("Conversation routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notificationRepo, userRepo, dispatcher)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	staffHandler := handlers.NewStaffHandler(staffRepo, dispatcher)
	staffHandler.RegisterStaffRoutes(api)
	log.Println("Staff routes configured.")

	serviceHandler := handlers.NewServiceHandler(serviceRepo, dispatcher)
	serviceHandler.RegisterServiceRoutes(api)
	log.Println("Service routes configured.")

	offerHandler := handlers.NewOfferHandler(offerRepo, dispatcher)
	offerHandler.RegisterOfferRoutes(api)
	log.Println("Offer routes configured.")

	testimonialHandler := handlers.NewTestimonialHandler(testimonialRepo)
	testimonialHandler.RegisterTestimonialRoutes(api)
	log.Println("Testimonial routes configured.")

	log.Println("All routes configured.")
}
