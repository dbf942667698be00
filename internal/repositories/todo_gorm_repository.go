package repositories

import (
	"context"
	"errors"
	"fmt"

	"todoapp/internal/models"

	"gorm.io/gorm"
)

// GORMTodoRepository is a GORM implementation of TodoRepository.
type GORMTodoRepository struct {
	db *gorm.DB
}

// NewGORMTodoRepository creates a new instance of GORMTodoRepository.
func NewGORMTodoRepository(db *gorm.DB) *GORMTodoRepository {
	return &GORMTodoRepository{
		db: db,
	}
}

// ListByOwner retrieves all todos owned by ownerID.
func (r *GORMTodoRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Todo, error) {
	todos := []models.Todo{}
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Order("id").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("failed to list todos for owner %d: %w", ownerID, err)
	}
	return todos, nil
}

// GetOwned retrieves a todo by ID, provided it belongs to ownerID.
func (r *GORMTodoRepository) GetOwned(ctx context.Context, ownerID, id uint) (*models.Todo, error) {
	return getOwned(r.db.WithContext(ctx), ownerID, id)
}

func getOwned(db *gorm.DB, ownerID, id uint) (*models.Todo, error) {
	var todo models.Todo
	if err := db.Where("id = ? AND owner_id = ?", id, ownerID).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get todo %d: %w", id, err)
	}
	return &todo, nil
}

// Create inserts a new todo. The caller is responsible for setting OwnerID.
func (r *GORMTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	if err := r.db.WithContext(ctx).Create(todo).Error; err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// UpdateOwned applies update to the todo identified by id if, and only if, it
// belongs to ownerID. The lookup and the write share one transaction.
func (r *GORMTodoRepository) UpdateOwned(ctx context.Context, ownerID, id uint, update models.TodoUpdate) (*models.Todo, error) {
	var updated *models.Todo
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		todo, err := getOwned(tx, ownerID, id)
		if err != nil {
			return err
		}
		res := tx.Model(&models.Todo{}).
			Where("id = ? AND owner_id = ?", id, ownerID).
			Updates(update.Columns())
		if res.Error != nil {
			return fmt.Errorf("failed to update todo %d: %w", id, res.Error)
		}
		update.Apply(todo)
		updated = todo
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOwned removes the todo identified by id if it belongs to ownerID.
func (r *GORMTodoRepository) DeleteOwned(ctx context.Context, ownerID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Todo{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAll retrieves every todo regardless of owner.
func (r *GORMTodoRepository) ListAll(ctx context.Context) ([]models.Todo, error) {
	todos := []models.Todo{}
	if err := r.db.WithContext(ctx).Order("id").Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Delete removes a todo by ID regardless of owner.
func (r *GORMTodoRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Todo{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete todo %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
