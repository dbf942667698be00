package handlers

import (
	"errors"

	"todoapp/internal/auth"
	"todoapp/internal/middleware"
	"todoapp/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// errorResponse converts a service error into the HTTP response the API
// promises. notFound is the detail used for services.ErrNotFound.
func errorResponse(c *fiber.Ctx, log logrus.FieldLogger, err error, notFound string) error {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"detail": "Validation failed",
			"errors": validationErr.Fields,
		})
	case errors.Is(err, services.ErrNotFound):
		return detail(c, fiber.StatusNotFound, notFound)
	case errors.Is(err, auth.ErrUnauthenticated):
		return detail(c, fiber.StatusUnauthorized, "Could not validate credentials")
	case errors.Is(err, services.ErrForbidden):
		return detail(c, fiber.StatusForbidden, "Forbidden")
	case errors.Is(err, services.ErrConflict):
		return detail(c, fiber.StatusConflict, err.Error())
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Method(),
			"path":   c.Path(),
		}).Error("request failed")
		return detail(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"detail": message,
	})
}

func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"detail": "Invalid request body",
		"error":  err.Error(),
	})
}

// pathID parses a positive integer route parameter.
func pathID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, &services.ValidationError{Fields: map[string]string{
			name: "Field '" + name + "' must be a positive integer",
		}}
	}
	return uint(id), nil
}

// identity returns the caller resolved by middleware.AuthRequired.
func identity(c *fiber.Ctx) (auth.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		return auth.Identity{}, auth.ErrUnauthenticated
	}
	return id, nil
}
