package handlers

import (
	"errors"
	"log"
	"strconv"

	"bibliotheque/internal/core/domain"
	"bibliotheque/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// parseID reads the :id path parameter
func parseID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// fail maps a service error to its HTTP response
func fail(c *fiber.Ctx, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, domain.ErrBookNotFound):
		return response.NotFound(c, "Book not found")
	case errors.Is(err, domain.ErrMemberNotFound):
		return response.NotFound(c, "Member not found")
	case errors.Is(err, domain.ErrLoanNotFound):
		return response.NotFound(c, "Loan not found")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Resource not found")
	case errors.Is(err, domain.ErrDuplicateEntry):
		return response.Conflict(c, "Duplicate entry")
	case errors.Is(err, domain.ErrBookNotAvailable):
		return response.Conflict(c, "Book is not available")
	case errors.Is(err, domain.ErrLoanAlreadyReturned):
		return response.Conflict(c, "Loan already returned")
	case errors.Is(err, domain.ErrBookHasLoans):
		return response.Conflict(c, "Book still has loans")
	case errors.Is(err, domain.ErrMemberHasLoans):
		return response.Conflict(c, "Member still has loans")
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.Printf("❌ %s: %v", action, err)
		return response.ServiceUnavailable(c, "Store unavailable")
	default:
		log.Printf("❌ %s: %v", action, err)
		return response.InternalServerError(c, action)
	}
}
