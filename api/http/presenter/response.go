package presenter

import "github.com/gofiber/fiber/v2"

type ErrorResponse struct {
	Message string `json:"message"`
}

// FieldErrors is a field-keyed list of validation messages, rendered as the
// response body verbatim: {"email": ["cannot be blank"]}.
type FieldErrors map[string][]string

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Message: message})
}

func Fields(c *fiber.Ctx, status int, fields FieldErrors) error {
	return JSON(c, status, fields)
}
