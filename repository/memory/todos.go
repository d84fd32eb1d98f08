package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"wellbeing/model"
)

type InMemoryTodoRepo struct {
	items map[string]model.TodoItem
	mu    sync.RWMutex
}

func NewTodoRepo() *InMemoryTodoRepo {
	return &InMemoryTodoRepo{items: make(map[string]model.TodoItem)}
}

func (r *InMemoryTodoRepo) CreateTodo(ctx context.Context, todo *model.TodoItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if todo.TodoID == "" || todo.UserID == "" {
		return errors.New("invalid todo: missing required fields")
	}
	r.items[todo.TodoID] = *todo
	return nil
}

func (r *InMemoryTodoRepo) GetTodo(ctx context.Context, todoID string) (*model.TodoItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todo, ok := r.items[todoID]
	if !ok {
		return nil, nil
	}
	return &todo, nil
}

func (r *InMemoryTodoRepo) ListUserTodos(ctx context.Context, userID string, pendingOnly bool, limit int64) ([]*model.TodoItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := []*model.TodoItem{}
	for _, t := range r.items {
		if t.UserID != userID || (pendingOnly && t.IsCompleted) {
			continue
		}
		todo := t
		todos = append(todos, &todo)
	}
	sort.Slice(todos, func(i, j int) bool {
		if todos[i].DueDate != todos[j].DueDate {
			return todos[i].DueDate < todos[j].DueDate
		}
		return todos[i].CreatedAt.Before(todos[j].CreatedAt)
	})
	if limit > 0 && int64(len(todos)) > limit {
		todos = todos[:limit]
	}
	return todos, nil
}

func (r *InMemoryTodoRepo) SetCompleted(ctx context.Context, todoID string, completed bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	todo, ok := r.items[todoID]
	if !ok {
		return errors.New("todo not found")
	}
	todo.IsCompleted = completed
	r.items[todoID] = todo
	return nil
}

func (r *InMemoryTodoRepo) DeleteTodo(ctx context.Context, todoID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[todoID]; !ok {
		return errors.New("todo not found")
	}
	delete(r.items, todoID)
	return nil
}
