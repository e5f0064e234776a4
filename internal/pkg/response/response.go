package response

import "github.com/gofiber/fiber/v2"

// Response is the JSON envelope shared by every non-paged endpoint.
// Exactly one of Data or Error is meaningful, chosen by Success.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c *fiber.Ctx, code int, message string, data any) error {
	return c.Status(code).JSON(Response{Success: true, Message: message, Data: data})
}

// Success replies 200 with data
func Success(c *fiber.Ctx, message string, data any) error {
	return ok(c, fiber.StatusOK, message, data)
}

// Created replies 201 with the stored entity
func Created(c *fiber.Ctx, message string, data any) error {
	return ok(c, fiber.StatusCreated, message, data)
}

// Error replies with code and a failure envelope carrying message
func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(Response{Error: message})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// Conflict is used when a lending rule refuses the change
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, message)
}

func InternalServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// ServiceUnavailable is used when the store cannot be reached
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusServiceUnavailable, message)
}
