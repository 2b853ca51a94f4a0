// Package response implements the standard API envelope:
// {success, message?, data?, errors?: [{field, message}]}.
package response

import (
	"github.com/gofiber/fiber/v2"

	"go-crm-api/pkg/validator"
)

// FieldError is a single field-level validation failure
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Envelope is the body shape every endpoint returns
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// OK sends a 200 success envelope
func OK(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Envelope{Success: true, Message: message, Data: data})
}

// Created sends a 201 success envelope
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Envelope{Success: true, Message: message, Data: data})
}

// Error sends a failure envelope with the given status
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(Envelope{Success: false, Message: message})
}

// ValidationError sends a 400 envelope with field-level errors
func ValidationError(c *fiber.Ctx, errs []FieldError) error {
	return c.Status(fiber.StatusBadRequest).JSON(Envelope{
		Success: false,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// FromValidator maps pkg/validator results onto field errors
func FromValidator(errs []*validator.ErrorResponse) []FieldError {
	out := make([]FieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, FieldError{
			Field:   e.FailedField,
			Message: "failed on '" + e.Tag + "' validation",
		})
	}
	return out
}
