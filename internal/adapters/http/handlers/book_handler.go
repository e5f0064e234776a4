package handlers

import (
	"bibliotheque/internal/core/services"
	"bibliotheque/internal/pkg/pagination"
	"bibliotheque/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// BookHandler handles catalog endpoints
type BookHandler struct {
	bookService *services.BookService
}

// NewBookHandler creates a new book handler
func NewBookHandler(bookService *services.BookService) *BookHandler {
	return &BookHandler{
		bookService: bookService,
	}
}

// ListBooks handles listing books.
// Query: title, author, isbn, available=true, page, limit
func (h *BookHandler) ListBooks(c *fiber.Ctx) error {
	filter := services.BookFilter{
		Title:         c.Query("title"),
		Author:        c.Query("author"),
		ISBN:          c.Query("isbn"),
		AvailableOnly: c.QueryBool("available"),
	}

	books, err := h.bookService.List(c.UserContext(), filter)
	if err != nil {
		return fail(c, err, "Failed to list books")
	}

	return response.Success(c, "Books retrieved successfully", pagination.Paginate(books, pagination.GetParams(c)))
}

// GetBook handles getting a book by ID
func (h *BookHandler) GetBook(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	book, err := h.bookService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "Failed to get book")
	}

	return response.Success(c, "Book retrieved successfully", book)
}

// CreateBook handles adding a book
func (h *BookHandler) CreateBook(c *fiber.Ctx) error {
	var req services.BookInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err, "Failed to create book")
	}

	return response.Created(c, "Book created successfully", book)
}

// UpdateBook handles overwriting a book
func (h *BookHandler) UpdateBook(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	var req services.BookInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	book, err := h.bookService.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err, "Failed to update book")
	}

	return response.Success(c, "Book updated successfully", book)
}

// SetAvailabilityRequest represents the availability correction body
type SetAvailabilityRequest struct {
	Available *bool `json:"available"`
}

// SetAvailability handles a manual availability correction
func (h *BookHandler) SetAvailability(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	var req SetAvailabilityRequest
	if err := c.BodyParser(&req); err != nil || req.Available == nil {
		return response.BadRequest(c, "Field 'available' is required")
	}

	if err := h.bookService.SetAvailability(c.UserContext(), id, *req.Available); err != nil {
		return fail(c, err, "Failed to update availability")
	}

	return response.Success(c, "Availability updated successfully", fiber.Map{
		"id":        id,
		"available": *req.Available,
	})
}

// DeleteBook handles removing a book
func (h *BookHandler) DeleteBook(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid book ID")
	}

	if err := h.bookService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err, "Failed to delete book")
	}

	return response.Success(c, "Book deleted successfully", nil)
}
