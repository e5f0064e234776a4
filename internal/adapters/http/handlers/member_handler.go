package handlers

import (
	"bibliotheque/internal/core/services"
	"bibliotheque/internal/pkg/pagination"
	"bibliotheque/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MemberHandler handles member endpoints
type MemberHandler struct {
	memberService *services.MemberService
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(memberService *services.MemberService) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
	}
}

// ListMembers handles listing members.
// Query: name, email, last+first, page, limit
func (h *MemberHandler) ListMembers(c *fiber.Ctx) error {
	filter := services.MemberFilter{
		Name:      c.Query("name"),
		Email:     c.Query("email"),
		LastName:  c.Query("last"),
		FirstName: c.Query("first"),
	}

	members, err := h.memberService.List(c.UserContext(), filter)
	if err != nil {
		return fail(c, err, "Failed to list members")
	}

	return response.Success(c, "Members retrieved successfully", pagination.Paginate(members, pagination.GetParams(c)))
}

// GetMember handles getting a member by ID
func (h *MemberHandler) GetMember(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	member, err := h.memberService.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, err, "Failed to get member")
	}

	return response.Success(c, "Member retrieved successfully", member)
}

// CreateMember handles registering a member
func (h *MemberHandler) CreateMember(c *fiber.Ctx) error {
	var req services.MemberInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Create(c.UserContext(), req)
	if err != nil {
		return fail(c, err, "Failed to create member")
	}

	return response.Created(c, "Member created successfully", member)
}

// UpdateMember handles overwriting a member
func (h *MemberHandler) UpdateMember(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	var req services.MemberInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	member, err := h.memberService.Update(c.UserContext(), id, req)
	if err != nil {
		return fail(c, err, "Failed to update member")
	}

	return response.Success(c, "Member updated successfully", member)
}

// DeleteMember handles removing a member
func (h *MemberHandler) DeleteMember(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return response.BadRequest(c, "Invalid member ID")
	}

	if err := h.memberService.Delete(c.UserContext(), id); err != nil {
		return fail(c, err, "Failed to delete member")
	}

	return response.Success(c, "Member deleted successfully", nil)
}
