package handlers

import (
	"todoapp/internal/auth"
	"todoapp/internal/middleware"
	"todoapp/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const todoNotFound = "Todo not found"

// TodoHandler handles HTTP requests for the caller's todos.
type TodoHandler struct {
	service *services.TodoService
	log     logrus.FieldLogger
}

// NewTodoHandler creates a new TodoHandler.
func NewTodoHandler(service *services.TodoService, log logrus.FieldLogger) *TodoHandler {
	return &TodoHandler{
		service: service,
		log:     log,
	}
}

// RegisterRoutes registers the todo routes behind requireAuth, which must
// resolve the caller's identity.
func (h *TodoHandler) RegisterRoutes(router fiber.Router, requireAuth fiber.Handler) {
	todoRoutes := router.Group("/todos", requireAuth)
	todoRoutes.Get("/", h.HandleGetTodos)
	todoRoutes.Get("/todo/:id", h.HandleGetTodoByID)
	todoRoutes.Post("/todo", h.HandleCreateTodo)
	todoRoutes.Put("/todo/:id", h.HandleUpdateTodo)
	todoRoutes.Delete("/todo/:id", h.HandleDeleteTodo)
}

// RegisterAdminRoutes registers the admin-only todo routes behind requireAuth.
func (h *TodoHandler) RegisterAdminRoutes(router fiber.Router, requireAuth fiber.Handler) {
	adminRoutes := router.Group("/admin", requireAuth, middleware.RequireRole(auth.RoleAdmin))
	adminRoutes.Get("/todo", h.HandleGetAllTodos)
	adminRoutes.Delete("/todo/:id", h.HandleAdminDeleteTodo)
}

// HandleGetTodos lists the caller's todos.
func (h *TodoHandler) HandleGetTodos(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}

	todos, err := h.service.ListTodos(c.UserContext(), caller)
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}
	return c.JSON(todos)
}

// HandleGetTodoByID returns one of the caller's todos.
func (h *TodoHandler) HandleGetTodoByID(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}

	todo, err := h.service.GetTodo(c.UserContext(), caller, id)
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}
	return c.JSON(todo)
}

// HandleCreateTodo creates a todo owned by the caller.
func (h *TodoHandler) HandleCreateTodo(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}

	var input services.TodoInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c, err)
	}

	todo, err := h.service.CreateTodo(c.UserContext(), caller, input)
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}
	return c.Status(fiber.StatusCreated).JSON(todo)
}

// HandleUpdateTodo replaces the mutable fields of one of the caller's todos.
func (h *TodoHandler) HandleUpdateTodo(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}

	var input services.TodoInput
	if err := c.BodyParser(&input); err != nil {
		return invalidBody(c, err)
	}

	if _, err := h.service.UpdateTodo(c.UserContext(), caller, id, input); err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleDeleteTodo deletes one of the caller's todos.
func (h *TodoHandler) HandleDeleteTodo(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}

	if err := h.service.DeleteTodo(c.UserContext(), caller, id); err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleGetAllTodos lists every todo. Admin only.
func (h *TodoHandler) HandleGetAllTodos(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}

	todos, err := h.service.ListAllTodos(c.UserContext(), caller)
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}
	return c.JSON(todos)
}

// HandleAdminDeleteTodo deletes any todo. Admin only.
func (h *TodoHandler) HandleAdminDeleteTodo(c *fiber.Ctx) error {
	caller, err := identity(c)
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}
	id, err := pathID(c, "id")
	if err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}

	if err := h.service.DeleteAnyTodo(c.UserContext(), caller, id); err != nil {
		return errorResponse(c, h.log, err, todoNotFound)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
