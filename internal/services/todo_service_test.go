package services_test

import (
	"context"
	"errors"
	"testing"

	"todoapp/internal/auth"
	"todoapp/internal/models"
	"todoapp/internal/repositories"
	"todoapp/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTodoRepository is a mock implementation of repositories.TodoRepository
type MockTodoRepository struct {
	mock.Mock
}

func (m *MockTodoRepository) ListByOwner(ctx context.Context, ownerID uint) ([]models.Todo, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Todo), args.Error(1)
}

func (m *MockTodoRepository) GetOwned(ctx context.Context, ownerID, id uint) (*models.Todo, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Todo), args.Error(1)
}

func (m *MockTodoRepository) Create(ctx context.Context, todo *models.Todo) error {
	args := m.Called(ctx, todo)
	return args.Error(0)
}

func (m *MockTodoRepository) UpdateOwned(ctx context.Context, ownerID, id uint, update models.TodoUpdate) (*models.Todo, error) {
	args := m.Called(ctx, ownerID, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Todo), args.Error(1)
}

func (m *MockTodoRepository) DeleteOwned(ctx context.Context, ownerID, id uint) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockTodoRepository) ListAll(ctx context.Context) ([]models.Todo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Todo), args.Error(1)
}

func (m *MockTodoRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var (
	alice = auth.Identity{Subject: "alice", ID: 1, Role: "user"}
	admin = auth.Identity{Subject: "root", ID: 9, Role: "admin"}
)

func validTodo() services.TodoInput {
	return services.TodoInput{Title: "Buy milk", Description: "2% milk", Priority: 3}
}

func TestTodoService_CreateTodo_StampsOwner(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	publisher := new(MockPublisher)
	service := services.NewTodoService(mockRepo, publisher, testLogger())

	mockRepo.On("Create", ctx, mock.MatchedBy(func(todo *models.Todo) bool {
		return todo.OwnerID == alice.ID && todo.Title == "Buy milk" && todo.ID == 0
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Todo).ID = 42
	}).Return(nil).Once()
	publisher.On("Publish", services.EventTodoCreated, mock.Anything).Return(nil).Once()

	todo, err := service.CreateTodo(ctx, alice, validTodo())
	require.NoError(t, err)
	assert.Equal(t, uint(42), todo.ID)
	assert.Equal(t, alice.ID, todo.OwnerID)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestTodoService_CreateTodo_PublishFailureIsIgnored(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	publisher := new(MockPublisher)
	service := services.NewTodoService(mockRepo, publisher, testLogger())

	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Todo")).Return(nil).Once()
	publisher.On("Publish", services.EventTodoCreated, mock.Anything).Return(errors.New("broker down")).Once()

	_, err := service.CreateTodo(ctx, alice, validTodo())
	assert.NoError(t, err)
	publisher.AssertExpectations(t)
}

func TestTodoService_PriorityBounds(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	service := services.NewTodoService(mockRepo, nil, testLogger())
	mockRepo.On("Create", ctx, mock.AnythingOfType("*models.Todo")).Return(nil)

	for priority := 1; priority <= 6; priority++ {
		input := validTodo()
		input.Priority = priority
		_, err := service.CreateTodo(ctx, alice, input)
		assert.NoError(t, err, "priority %d", priority)
	}

	for _, priority := range []int{-1, 0, 7} {
		input := validTodo()
		input.Priority = priority
		_, err := service.CreateTodo(ctx, alice, input)
		var validationErr *services.ValidationError
		require.ErrorAs(t, err, &validationErr, "priority %d", priority)
		assert.Contains(t, validationErr.Fields, "priority")
	}

	mockRepo.AssertNumberOfCalls(t, "Create", 6)
}

func TestTodoService_TextBounds(t *testing.T) {
	service := services.NewTodoService(new(MockTodoRepository), nil, testLogger())

	tests := []struct {
		name  string
		input services.TodoInput
		field string
	}{
		{"short title", services.TodoInput{Title: "ab", Description: "valid", Priority: 1}, "title"},
		{"short description", services.TodoInput{Title: "valid", Description: "ab", Priority: 1}, "description"},
		{"long description", services.TodoInput{Title: "valid", Description: string(make([]byte, 101)), Priority: 1}, "description"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateTodo(context.Background(), alice, tt.input)
			var validationErr *services.ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tt.field)
		})
	}
}

func TestTodoService_NotOwnedIsNotFound(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	service := services.NewTodoService(mockRepo, nil, testLogger())

	mockRepo.On("GetOwned", ctx, alice.ID, uint(5)).Return(nil, repositories.ErrNotFound).Once()
	_, err := service.GetTodo(ctx, alice, 5)
	assert.ErrorIs(t, err, services.ErrNotFound)

	mockRepo.On("UpdateOwned", ctx, alice.ID, uint(5), mock.Anything).Return(nil, repositories.ErrNotFound).Once()
	_, err = service.UpdateTodo(ctx, alice, 5, validTodo())
	assert.ErrorIs(t, err, services.ErrNotFound)

	mockRepo.On("DeleteOwned", ctx, alice.ID, uint(5)).Return(repositories.ErrNotFound).Once()
	err = service.DeleteTodo(ctx, alice, 5)
	assert.ErrorIs(t, err, services.ErrNotFound)

	mockRepo.AssertExpectations(t)
}

func TestTodoService_UpdateTodo_OnlyMutableFields(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	publisher := new(MockPublisher)
	service := services.NewTodoService(mockRepo, publisher, testLogger())

	input := services.TodoInput{Title: "Buy bread", Description: "whole grain", Priority: 6, Complete: true}
	expected := models.TodoUpdate{Title: "Buy bread", Description: "whole grain", Priority: 6, Complete: true}
	mockRepo.On("UpdateOwned", ctx, alice.ID, uint(3), expected).
		Return(&models.Todo{ID: 3, OwnerID: alice.ID, Title: "Buy bread"}, nil).Once()
	publisher.On("Publish", services.EventTodoUpdated, mock.Anything).Return(nil).Once()

	todo, err := service.UpdateTodo(ctx, alice, 3, input)
	require.NoError(t, err)
	assert.Equal(t, "Buy bread", todo.Title)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestTodoService_AdminOperations(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockTodoRepository)
	service := services.NewTodoService(mockRepo, nil, testLogger())

	_, err := service.ListAllTodos(ctx, alice)
	assert.ErrorIs(t, err, services.ErrForbidden)
	assert.ErrorIs(t, service.DeleteAnyTodo(ctx, alice, 1), services.ErrForbidden)

	mockRepo.On("ListAll", ctx).Return([]models.Todo{{ID: 1}, {ID: 2}}, nil).Once()
	todos, err := service.ListAllTodos(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, todos, 2)

	mockRepo.On("Delete", ctx, uint(1)).Return(nil).Once()
	mockRepo.On("Delete", ctx, uint(2)).Return(repositories.ErrNotFound).Once()
	assert.NoError(t, service.DeleteAnyTodo(ctx, admin, 1))
	assert.ErrorIs(t, service.DeleteAnyTodo(ctx, admin, 2), services.ErrNotFound)

	mockRepo.AssertExpectations(t)
}
