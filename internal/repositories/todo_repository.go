package repositories

import (
	"context"

	"todoapp/internal/models"
)

// TodoRepository defines the interface for todo data access. Every method
// that takes an ownerID only ever sees rows owned by that user.
type TodoRepository interface {
	ListByOwner(ctx context.Context, ownerID uint) ([]models.Todo, error)
	GetOwned(ctx context.Context, ownerID, id uint) (*models.Todo, error)
	Create(ctx context.Context, todo *models.Todo) error
	UpdateOwned(ctx context.Context, ownerID, id uint, update models.TodoUpdate) (*models.Todo, error)
	DeleteOwned(ctx context.Context, ownerID, id uint) error

	// ListAll and Delete ignore ownership and back the admin endpoints.
	ListAll(ctx context.Context) ([]models.Todo, error)
	Delete(ctx context.Context, id uint) error
}
