package services

import (
	"context"

	"todoapp/internal/auth"
	"todoapp/internal/models"
	"todoapp/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

// TodoInput is the body accepted when creating or replacing a todo. It has no
// owner field: ownership always comes from the caller's identity.
type TodoInput struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required,min=3,max=100"`
	Priority    int    `json:"priority" validate:"gt=0,lte=6"`
	Complete    bool   `json:"complete"`
}

func (in TodoInput) update() models.TodoUpdate {
	return models.TodoUpdate{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Complete:    in.Complete,
	}
}

// TodoService handles todo operations on behalf of an authenticated caller.
// Every lookup is scoped to the caller, so a todo owned by someone else is
// reported exactly like a missing one.
type TodoService struct {
	repo      repositories.TodoRepository
	publisher EventPublisher
	validate  *validator.Validate
	log       logrus.FieldLogger
}

// NewTodoService creates a new TodoService. publisher may be nil.
func NewTodoService(repo repositories.TodoRepository, publisher EventPublisher, log logrus.FieldLogger) *TodoService {
	return &TodoService{
		repo:      repo,
		publisher: publisher,
		validate:  newValidator(),
		log:       log.WithField("component", "todos"),
	}
}

// ListTodos returns every todo owned by the caller.
func (s *TodoService) ListTodos(ctx context.Context, identity auth.Identity) ([]models.Todo, error) {
	return s.repo.ListByOwner(ctx, identity.ID)
}

// GetTodo returns one of the caller's todos.
func (s *TodoService) GetTodo(ctx context.Context, identity auth.Identity, id uint) (*models.Todo, error) {
	todo, err := s.repo.GetOwned(ctx, identity.ID, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return todo, nil
}

// CreateTodo stores a new todo owned by the caller.
func (s *TodoService) CreateTodo(ctx context.Context, identity auth.Identity, input TodoInput) (*models.Todo, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	todo := &models.Todo{OwnerID: identity.ID}
	input.update().Apply(todo)
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, err
	}

	publishEvent(s.publisher, s.log, Event{Type: EventTodoCreated, UserID: identity.ID, TodoID: todo.ID})
	return todo, nil
}

// UpdateTodo replaces the mutable fields of one of the caller's todos.
func (s *TodoService) UpdateTodo(ctx context.Context, identity auth.Identity, id uint, input TodoInput) (*models.Todo, error) {
	if err := validateStruct(s.validate, input); err != nil {
		return nil, err
	}

	todo, err := s.repo.UpdateOwned(ctx, identity.ID, id, input.update())
	if err != nil {
		return nil, mapNotFound(err)
	}

	publishEvent(s.publisher, s.log, Event{Type: EventTodoUpdated, UserID: identity.ID, TodoID: id})
	return todo, nil
}

// DeleteTodo removes one of the caller's todos.
func (s *TodoService) DeleteTodo(ctx context.Context, identity auth.Identity, id uint) error {
	if err := s.repo.DeleteOwned(ctx, identity.ID, id); err != nil {
		return mapNotFound(err)
	}

	publishEvent(s.publisher, s.log, Event{Type: EventTodoDeleted, UserID: identity.ID, TodoID: id})
	return nil
}

// ListAllTodos returns every todo in the system. Admin only.
func (s *TodoService) ListAllTodos(ctx context.Context, identity auth.Identity) ([]models.Todo, error) {
	if !identity.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.repo.ListAll(ctx)
}

// DeleteAnyTodo removes a todo regardless of owner. Admin only.
func (s *TodoService) DeleteAnyTodo(ctx context.Context, identity auth.Identity, id uint) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return mapNotFound(err)
	}

	s.log.WithFields(logrus.Fields{"admin_id": identity.ID, "todo_id": id}).Info("todo deleted by admin")
	publishEvent(s.publisher, s.log, Event{Type: EventTodoDeleted, UserID: identity.ID, TodoID: id})
	return nil
}
