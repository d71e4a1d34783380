package store

import (
	"context"
	"fmt"

	"github.com/pathakanu/memoryjournal/internal/model"
)

// Undone first, then High, Medium, Low, then due date with blanks last.
const todoOrder = "is_done ASC, " +
	"CASE priority WHEN 'High' THEN 0 WHEN 'Medium' THEN 1 ELSE 2 END ASC, " +
	"CASE WHEN due_date IS NULL OR due_date = '' THEN 1 ELSE 0 END ASC, " +
	"due_date ASC, id ASC"

// CreateTodo inserts t. An empty priority is stored as Low.
func (s *Store) CreateTodo(ctx context.Context, t *model.Todo) error {
	if t.Priority == "" {
		t.Priority = model.PriorityLow
	}
	if err := s.conn(ctx).Create(t).Error; err != nil {
		return fmt.Errorf("create todo: %w", err)
	}
	return nil
}

// ListTodos returns every todo in display order.
func (s *Store) ListTodos(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := s.conn(ctx).Order(todoOrder).Find(&todos).Error; err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// OpenTodos returns the todos not yet done, in display order.
func (s *Store) OpenTodos(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	err := s.conn(ctx).
		Where("is_done = ?", false).
		Order(todoOrder).
		Find(&todos).Error
	if err != nil {
		return nil, fmt.Errorf("open todos: %w", err)
	}
	return todos, nil
}

// MarkTodoDone sets is_done on the todo. Done todos stay done.
func (s *Store) MarkTodoDone(ctx context.Context, id uint) error {
	result := s.conn(ctx).
		Model(&model.Todo{}).
		Where("id = ?", id).
		Update("is_done", true)
	if err := affected(result); err != nil {
		return fmt.Errorf("mark todo %d done: %w", id, err)
	}
	return nil
}

// DeleteTodo removes the todo.
func (s *Store) DeleteTodo(ctx context.Context, id uint) error {
	if err := affected(s.conn(ctx).Delete(&model.Todo{}, id)); err != nil {
		return fmt.Errorf("delete todo %d: %w", id, err)
	}
	return nil
}
