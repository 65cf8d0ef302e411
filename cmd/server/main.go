package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"mikopo-backend/internal/adapters/http/middleware"
	"mikopo-backend/internal/adapters/http/routes"
	"mikopo-backend/internal/adapters/persistence/models"
	"mikopo-backend/internal/config"
	"mikopo-backend/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "mikopo-backend/docs" // Swagger docs
)

// @title Mikopo API
// @version 1.0
// @description Microfinance loan lifecycle API: applications, approvals, loans, repayments and portfolio reports.
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@mikopo.co.tz

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.mikopo.co.tz
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed admin user and loan products
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed database: %v", err)
	}
	if err := config.SeedLoanProducts(db); err != nil {
		log.Printf("⚠️ Warning: Failed to seed loan products: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Mikopo API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	svcs := routes.Setup(app, db, cfg)

	// Scheduled jobs: overdue sweep + session cleanup
	cronService := services.NewCronService(svcs.Loan, svcs.Auth)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron scheduler: %v", err)
	}
	defer cronService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
