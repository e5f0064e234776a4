package handlers

import (
	"strconv"

	"bibliotheque/internal/core/services"
	"bibliotheque/internal/pkg/pagination"
	"bibliotheque/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// LoanHandler handles lending endpoints
type LoanHandler struct {
	lendingService *services.LendingService
}

// NewLoanHandler creates a new loan handler
func NewLoanHandler(lendingService *services.LendingService) *LoanHandler {
	return &LoanHandler{
		lendingService: lendingService,
	}
}

// ListLoans handles listing loans.
// Query: view=details|in-progress|overdue, book_id, member_id, q, page, limit
func (h *LoanHandler) ListLoans(c *fiber.Ctx) error {
	bookID, err := optionalID(c.Query("book_id"))
	if err != nil {
		return response.BadRequest(c, "Invalid book ID")
	}
	memberID, err := optionalID(c.Query("member_id"))
	if err != nil {
		return response.BadRequest(c, "Invalid member ID")
	}

	filter := services.LoanFilter{
		View:     c.Query("view"),
		BookID:   bookID,
		MemberID: memberID,
		Query:    c.Query("q"),
	}
	if filter.View == services.ViewDetails {
		h.lendingService.ActivateView()
	}

	loans, err := h.lendingService.List(c.UserContext(), filter)
	if err != nil {
		return fail(c, err, "Failed to list loans")
	}

	return response.Success(c, "Loans retrieved successfully", pagination.Paginate(loans, pagination.GetParams(c)))
}

// GetLoan handles getting a loan by ID
func (h *LoanHandler) GetLoan(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	loan, err := h.lendingService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "Failed to get loan")
	}

	return response.Success(c, "Loan retrieved successfully", loan)
}

// CreateLoan handles lending a book to a member
func (h *LoanHandler) CreateLoan(c *fiber.Ctx) error {
	var req services.LoanInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.lendingService.Lend(c.UserContext(), req)
	if err != nil {
		return fail(c, err, "Failed to create loan")
	}

	return response.Created(c, "Loan created successfully", loan)
}

// UpdateLoan handles overwriting a loan
func (h *LoanHandler) UpdateLoan(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req services.LoanInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	loan, err := h.lendingService.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err, "Failed to update loan")
	}

	return response.Success(c, "Loan updated successfully", loan)
}

// ReturnLoanRequest represents the return body; an empty date means today
type ReturnLoanRequest struct {
	ReturnDate string `json:"return_date"`
}

// ReturnLoan handles closing a loan
func (h *LoanHandler) ReturnLoan(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	var req ReturnLoanRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	loan, err := h.lendingService.Return(c.UserContext(), id, req.ReturnDate)
	if err != nil {
		return fail(c, err, "Failed to return loan")
	}

	return response.Success(c, "Loan returned successfully", loan)
}

// DeleteLoan handles removing a loan
func (h *LoanHandler) DeleteLoan(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid loan ID")
	}

	if err := h.lendingService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err, "Failed to delete loan")
	}

	return response.Success(c, "Loan deleted successfully", nil)
}

func optionalID(raw string) (uint, error) {
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
