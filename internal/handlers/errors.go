package handlers

import (
	"errors"
	"log/slog"

	"recipeapi/internal/repositories"
	"recipeapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the Fiber error handler for errors no handler dealt with.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}
	slog.ErrorContext(c.UserContext(), "request failed",
		"method", c.Method(), "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Internal server error",
	})
}

func validationFailed(c *fiber.Ctx, fields map[string][]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Validation failed",
		"errors":  fields,
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	slog.DebugContext(c.UserContext(), "invalid request body", "path", c.Path(), "error", err)
	return validationFailed(c, bodyErrorMessages(err))
}

// serviceError maps service and repository errors onto HTTP responses.
// Unknown errors are handed to ErrorHandler.
func serviceError(c *fiber.Ctx, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return validationFailed(c, verr.Fields)
	case errors.Is(err, services.ErrEmailRequired):
		return validationFailed(c, map[string][]string{"email": {err.Error()}})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Unable to authenticate with provided credentials",
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Not found"})
	case errors.Is(err, repositories.ErrDuplicate):
		return validationFailed(c, map[string][]string{"non_field_errors": {err.Error()}})
	default:
		return err
	}
}

func methodNotAllowed(allow string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAllow, allow)
		return fiber.ErrMethodNotAllowed
	}
}

// bind decodes the request body into req and validates it. When it reports
// false the 400 response has already been written and err is the result of
// writing it.
func bind(c *fiber.Ctx, v *validator.Validate, req any) (ok bool, err error) {
	if c.Is("json") {
		if fields := nullFields(c.Body(), req); len(fields) > 0 {
			return false, validationFailed(c, fields)
		}
	}
	if err := c.BodyParser(req); err != nil {
		return false, invalidBody(c, err)
	}
	if err := v.Struct(req); err != nil {
		return false, validationFailed(c, validationMessages(err))
	}
	return true, nil
}
