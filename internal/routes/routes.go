// Package routes defines the API routing configuration.
// It sets up all HTTP routes and their corresponding handlers,
// including middleware and authentication requirements.
package routes

import (
	"messbook/internal/config"
	"messbook/internal/handlers"
	"messbook/internal/middleware"
	"messbook/internal/models"
	"messbook/internal/repositories"
	"messbook/internal/services/auth"
	"messbook/internal/services/booking"
	"messbook/internal/services/catalog"
	"messbook/internal/services/dashboard"
	"messbook/internal/services/payment"
	"messbook/internal/services/wallet"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
// It groups routes by functionality and applies appropriate middleware.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	walletRepo := repositories.NewWalletRepository(db)
	bookingRepo := repositories.NewBookingRepository(db)
	mealRepo := repositories.NewMealRepository(db)
	userRepo := repositories.NewUserRepository(db)
	txManager := repositories.NewTxManager(db)

	// Services
	walletService := wallet.NewService(
		walletRepo,
		repositories.CacheService,
		wallet.Config{
			DefaultCurrency: config.GetEnv("WALLET_CURRENCY", "INR"),
			MaxTopUpAmount:  config.GetInt64Env("WALLET_MAX_TOPUP", 0),
		},
		&wallet.NoopMetricsCollector{},
	)
	catalogService := catalog.NewService(mealRepo, repositories.CacheService)
	bookingService := booking.NewService(
		catalogService,
		bookingRepo,
		walletRepo,
		txManager,
		repositories.CacheService,
		booking.Config{},
		&wallet.NoopMetricsCollector{},
	)
	dashboardService := dashboard.NewService(walletRepo, bookingRepo)
	authService := auth.NewService(userRepo, walletService)
	gateway := payment.NewStripeGateway()

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(walletService, gateway)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Public routes
	api := app.Group("/api")

	api.Post("/register", authHandler.RegisterUser)
	api.Post("/login", authHandler.LoginUser)
	api.Post("/refresh", authHandler.RefreshToken)

	api.Get("/health", handlers.HealthCheck)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Messbook API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})

	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Protected routes with auth middleware
	protected := api.Use(authMiddleware.Handler)

	protected.Post("/logout", authHandler.LogoutUser)
	protected.Post("/change-password", authHandler.ChangePassword)

	// Catalog routes
	protected.Get("/halls", catalogHandler.ListHalls)
	protected.Get("/halls/:hallId/meals", catalogHandler.ListMeals)
	protected.Get("/meals", catalogHandler.SearchMeals)

	// Wallet routes
	walletGroup := protected.Group("/wallet")
	walletGroup.Get("/", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetWallet)
	walletGroup.Post("/topup", middleware.HasPermission(models.PermissionWalletWrite), walletHandler.TopUpWallet)
	walletGroup.Get("/transactions", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetTransactions)
	walletGroup.Get("/reconcile", middleware.HasPermission(models.PermissionWalletRead), walletHandler.Reconcile)

	// Booking routes
	bookings := protected.Group("/bookings")
	bookings.Post("/", middleware.HasPermission(models.PermissionBookingWrite), bookingHandler.CreateBooking)
	bookings.Get("/", middleware.HasPermission(models.PermissionBookingRead), bookingHandler.ListBookings)
	bookings.Get("/:id", middleware.HasPermission(models.PermissionBookingRead), bookingHandler.GetBooking)
	bookings.Post("/:id/cancel", middleware.HasPermission(models.PermissionBookingWrite), bookingHandler.CancelBooking)

	// Dashboard
	protected.Get("/dashboard", dashboardHandler.GetUserDashboard)

	// Admin / staff routes
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminAuthMiddleware)
	admin.Post("/bookings/:id/consume", middleware.HasPermission(models.PermissionWriteAdmin), bookingHandler.ConsumeBooking)
}
