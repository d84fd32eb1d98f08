package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wellbeing/model"
	"wellbeing/utils"
)

type TodosService struct {
	repo TodoStore
	now  func() time.Time
}

func NewTodosService(repo TodoStore) *TodosService {
	return &TodosService{repo: repo, now: time.Now}
}

// GetUserTodos returns every item of the user ordered by due date.
func (svc *TodosService) GetUserTodos(ctx context.Context, userID string) ([]*model.TodoItem, error) {
	todos, err := svc.repo.ListUserTodos(ctx, userID, false, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	return todos, nil
}

// Upcoming returns at most limit incomplete items, soonest due first.
func (svc *TodosService) Upcoming(ctx context.Context, userID string, limit int64) ([]*model.TodoItem, error) {
	todos, err := svc.repo.ListUserTodos(ctx, userID, true, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming todos: %w", err)
	}
	return todos, nil
}

func (svc *TodosService) CreateTodo(ctx context.Context, userID string, req model.TodoRequest) (*model.TodoItem, error) {
	task := strings.TrimSpace(req.Task)
	due := strings.TrimSpace(req.DueDate)
	if task == "" || !utils.ValidDueDate(due) {
		return nil, ErrInvalidTodo
	}

	todo := &model.TodoItem{
		TodoID:    utils.NewID(),
		UserID:    userID,
		Task:      task,
		DueDate:   due,
		CreatedAt: svc.now().UTC(),
	}
	if err := svc.repo.CreateTodo(ctx, todo); err != nil {
		return nil, fmt.Errorf("failed to create todo: %w", err)
	}
	return todo, nil
}

func (svc *TodosService) DeleteTodo(ctx context.Context, userID, todoID string) error {
	if _, err := svc.owned(ctx, userID, todoID); err != nil {
		return err
	}
	if err := svc.repo.DeleteTodo(ctx, todoID); err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

// ToggleTodo flips the completion flag and returns the updated item.
func (svc *TodosService) ToggleTodo(ctx context.Context, userID, todoID string) (*model.TodoItem, error) {
	todo, err := svc.owned(ctx, userID, todoID)
	if err != nil {
		return nil, err
	}
	todo.IsCompleted = !todo.IsCompleted
	if err := svc.repo.SetCompleted(ctx, todoID, todo.IsCompleted); err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}
	return todo, nil
}

func (svc *TodosService) owned(ctx context.Context, userID, todoID string) (*model.TodoItem, error) {
	todo, err := svc.repo.GetTodo(ctx, todoID)
	if err != nil {
		return nil, fmt.Errorf("failed to load todo: %w", err)
	}
	if todo == nil {
		return nil, ErrNotFound
	}
	if todo.UserID != userID {
		return nil, ErrNotOwner
	}
	return todo, nil
}
