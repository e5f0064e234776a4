package routes

import (
	"time"

	"bibliotheque/internal/adapters/http/handlers"
	"bibliotheque/internal/adapters/http/middleware"
	"bibliotheque/internal/adapters/persistence/repositories"
	"bibliotheque/internal/config"
	"bibliotheque/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// Services groups the application services shared by routes and background jobs
type Services struct {
	Books   *services.BookService
	Members *services.MemberService
	Lending *services.LendingService
}

// NewServices wires repositories and services on top of the store
func NewServices(db *config.Database, bus services.Publisher) *Services {
	// Initialize repositories
	store := repositories.NewStore(db.Gorm, db.Pool)
	bookRepo := repositories.NewBookRepository(store)
	memberRepo := repositories.NewMemberRepository(store)
	loanRepo := repositories.NewLoanRepository(store, bookRepo, memberRepo)

	// Initialize services
	return &Services{
		Books:   services.NewBookService(bookRepo, loanRepo, bus),
		Members: services.NewMemberService(memberRepo, loanRepo, bus),
		Lending: services.NewLendingService(loanRepo, bookRepo, memberRepo, bus),
	}
}

// Setup configures all routes for the application
func Setup(app *fiber.App, svc *Services, db *config.Database, cfg *config.Config) {
	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db, db.Pool, cfg.AppMode)
	bookHandler := handlers.NewBookHandler(svc.Books)
	memberHandler := handlers.NewMemberHandler(svc.Members)
	loanHandler := handlers.NewLoanHandler(svc.Lending)

	app.Get("/", middleware.CacheControl(time.Hour), healthHandler.Root)
	app.Get("/health", middleware.NoCacheHeaders(), healthHandler.HealthCheck)

	apiV1 := app.Group("/api/v1", middleware.NoCacheHeaders())
	apiV1.Get("/", healthHandler.APIInfo)

	setupBookRoutes(apiV1.Group("/books"), bookHandler)
	setupMemberRoutes(apiV1.Group("/members"), memberHandler)
	setupLoanRoutes(apiV1.Group("/loans"), loanHandler)
}

func setupBookRoutes(router fiber.Router, h *handlers.BookHandler) {
	router.Get("/", h.ListBooks)
	router.Post("/", h.CreateBook)
	router.Get("/:id", h.GetBook)
	router.Put("/:id", h.UpdateBook)
	router.Patch("/:id/availability", h.SetAvailability)
	router.Delete("/:id", h.DeleteBook)
}

func setupMemberRoutes(router fiber.Router, h *handlers.MemberHandler) {
	router.Get("/", h.ListMembers)
	router.Post("/", h.CreateMember)
	router.Get("/:id", h.GetMember)
	router.Put("/:id", h.UpdateMember)
	router.Delete("/:id", h.DeleteMember)
}

func setupLoanRoutes(router fiber.Router, h *handlers.LoanHandler) {
	router.Get("/", h.ListLoans)
	router.Post("/", h.CreateLoan)
	router.Get("/:id", h.GetLoan)
	router.Put("/:id", h.UpdateLoan)
	router.Post("/:id/return", h.ReturnLoan)
	router.Delete("/:id", h.DeleteLoan)
}
