package handlers

import (
	"errors"

	"todoapp/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const userNotFound = "User not found"

// UserHandler handles HTTP requests on the caller's own profile.
type UserHandler struct {
	service *services.UserService
	log     logrus.FieldLogger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, log logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the user routes behind requireAuth.
func (h *UserHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	userRoutes := router.Group("/users", requireAuth)
	userRoutes.Get("/user", h.HandleGetUser)
	userRoutes.Put("/password", h.HandleChangePassword)
	userRoutes.Put("/phonenumber/:phone_number", h.HandleUpdatePhoneNumber)
}

// HandleGetUser returns the caller's profile.
func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return errorResponse(c, h.log, err, userNotFound)
	}

	user, err := h.service.GetProfile(c.UserContext(), caller)
	if err != nil {
		return errorResponse(c, h.log, err, userNotFound)
	}
	return c.JSON(user)
}

// HandleChangePassword replaces the caller's password.
func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return errorResponse(c, h.log, err, userNotFound)
	}

	var change services.PasswordChange
	if err := c.BodyParser(&change); err != nil {
		return invalidBody(c, err)
	}

	if err := h.service.ChangePassword(c.UserContext(), caller, change); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return detail(c, fiber.StatusUnauthorized, "Invalid password")
		}
		return errorResponse(c, h.log, err, userNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUpdatePhoneNumber replaces the caller's phone number.
func (h *UserHandler) HandleUpdatePhoneNumber(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return errorResponse(c, h.log, err, userNotFound)
	}

	if err := h.service.UpdatePhoneNumber(c.UserContext(), caller, c.Params("phone_number")); err != nil {
		return errorResponse(c, h.log, err, userNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
