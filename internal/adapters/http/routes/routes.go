package routes

import (
	"mikopo-backend/internal/adapters/http/handlers"
	"mikopo-backend/internal/adapters/http/middleware"
	"mikopo-backend/internal/adapters/persistence/repositories"
	"mikopo-backend/internal/config"
	"mikopo-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Services bundles the service layer so main can share it with the
// scheduler.
type Services struct {
	Auth        *services.AuthService
	Application *services.ApplicationService
	Loan        *services.LoanService
	Client      *services.ClientService
	Dashboard   *services.DashboardService
	Report      *services.ReportService
	Activity    *services.ActivityService
	Product     *services.ProductService
}

// Setup configures all routes for the application and returns the
// assembled service layer.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) *Services {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	sessionRepo := repositories.NewSessionRepository(db)
	clientRepo := repositories.NewClientRepository(db)
	applicationRepo := repositories.NewApplicationRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	activityRepo := repositories.NewActivityRepository(db)
	productRepo := repositories.NewLoanProductRepository(db)
	txManager := repositories.NewTransactionManager(db)

	// Initialize services
	svcs := &Services{
		Auth:        services.NewAuthService(userRepo, sessionRepo, txManager, cfg.JWT),
		Application: services.NewApplicationService(applicationRepo, txManager),
		Loan:        services.NewLoanService(loanRepo, clientRepo, applicationRepo, activityRepo, txManager),
		Client:      services.NewClientService(clientRepo, loanRepo, activityRepo),
		Dashboard:   services.NewDashboardService(clientRepo, loanRepo, applicationRepo),
		Report:      services.NewReportService(loanRepo, clientRepo),
		Activity:    services.NewActivityService(activityRepo),
		Product:     services.NewProductService(productRepo),
	}

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(svcs.Auth, cfg)
	applicationHandler := handlers.NewApplicationHandler(svcs.Application)
	loanHandler := handlers.NewLoanHandler(svcs.Loan)
	clientHandler := handlers.NewClientHandler(svcs.Client)
	dashboardHandler := handlers.NewDashboardHandler(svcs.Dashboard, svcs.Activity)
	reportHandler := handlers.NewReportHandler(svcs.Report)
	productHandler := handlers.NewProductHandler(svcs.Product)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", authHandler.Refresh)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", middleware.AuthMiddleware(cfg), authHandler.Me)

	// Product catalog (public)
	apiV1.Get("/products", productHandler.List)

	// Application routes
	applicationRoutes := apiV1.Group("/applications")
	applicationRoutes.Use(middleware.AuthMiddleware(cfg))
	applicationRoutes.Post("/", applicationHandler.Submit)
	applicationRoutes.Get("/", middleware.AdminOnly(), applicationHandler.List)
	applicationRoutes.Get("/:id", middleware.AdminOnly(), applicationHandler.GetByID)
	applicationRoutes.Put("/:id/status", middleware.AdminOnly(), applicationHandler.UpdateStatus)

	// Loan routes
	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg))
	loanRoutes.Get("/my", loanHandler.GetMyLoans)
	loanRoutes.Get("/", middleware.AdminOnly(), loanHandler.List)
	loanRoutes.Get("/:id", middleware.AdminOnly(), loanHandler.GetByID)
	loanRoutes.Post("/:id/payments", middleware.AdminOnly(), loanHandler.RecordPayment)

	// Client portfolio routes (admin only)
	clientRoutes := apiV1.Group("/clients")
	clientRoutes.Use(middleware.AuthMiddleware(cfg))
	clientRoutes.Use(middleware.AdminOnly())
	clientRoutes.Get("/", clientHandler.List)
	clientRoutes.Post("/", clientHandler.Add)
	clientRoutes.Delete("/:id", clientHandler.Delete)

	// Profile routes (authenticated users)
	profileRoutes := apiV1.Group("/profile")
	profileRoutes.Use(middleware.AuthMiddleware(cfg))
	profileRoutes.Get("/", clientHandler.GetProfile)
	profileRoutes.Put("/", clientHandler.UpdateProfile)

	// Dashboard routes
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	dashboardRoutes.Get("/user", dashboardHandler.GetUserStats)
	dashboardRoutes.Get("/admin", middleware.AdminOnly(), dashboardHandler.GetAdminStats)
	dashboardRoutes.Get("/activities", middleware.AdminOnly(), dashboardHandler.GetRecentActivities)

	// Activity feed (admin only)
	activityRoutes := apiV1.Group("/activities")
	activityRoutes.Use(middleware.AuthMiddleware(cfg))
	activityRoutes.Use(middleware.AdminOnly())
	activityRoutes.Get("/", dashboardHandler.GetRecentActivities)

	// Reports (admin only)
	reportRoutes := apiV1.Group("/reports")
	reportRoutes.Use(middleware.AuthMiddleware(cfg))
	reportRoutes.Use(middleware.AdminOnly())
	reportRoutes.Get("/", reportHandler.GetReportData)

	return svcs
}
