package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bibliotheque/internal/adapters/http/middleware"
	"bibliotheque/internal/adapters/http/routes"
	"bibliotheque/internal/adapters/persistence/models"
	"bibliotheque/internal/config"
	"bibliotheque/internal/core/events"
	"bibliotheque/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

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
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("⚠️ Error closing database: %v", err)
		}
		log.Println("✅ Database connection closed")
	}()

	// Create tables and seed sample data on first run
	script, err := config.DefaultScript(cfg.Database.Driver)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if _, err := config.NewBootstrapper(db.Pool, script).Run(ctx); err != nil {
		log.Printf("⚠️ Warning: Failed to bootstrap database: %v", err)
	}
	cancel()

	bus := events.NewBus()
	bus.Subscribe(events.OverdueLoansListed, logOverdue)
	events.SubscribeChangeLog(bus)

	svc := routes.NewServices(db, bus)

	// Overdue scanner (08:30 daily by default)
	scanner, err := services.NewOverdueScanner(svc.Lending, cfg.Scheduler.OverdueScanSpec)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	scanner.Start()
	defer scanner.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Bibliotheque API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, svc, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("❌ Failed to start server: %v", err)
	}
}

// logOverdue writes the overdue loans to the log
func logOverdue(payload any) error {
	loans, ok := payload.([]*models.Loan)
	if !ok {
		return nil
	}
	for _, loan := range loans {
		log.Printf("⏰ Loan %d overdue since %s (book %d, member %d)",
			loan.ID, loan.ExpectedReturnDate, loan.BookID, loan.MemberID)
	}
	return nil
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
