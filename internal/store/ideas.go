package store

import (
	"context"
	"fmt"

	"github.com/pathakanu/memoryjournal/internal/model"
)

// CreateIdea inserts i and sets its ID.
func (s *Store) CreateIdea(ctx context.Context, i *model.Idea) error {
	if err := s.conn(ctx).Create(i).Error; err != nil {
		return fmt.Errorf("create idea: %w", err)
	}
	return nil
}

// ListIdeas returns ideas newest first.
func (s *Store) ListIdeas(ctx context.Context) ([]model.Idea, error) {
	var ideas []model.Idea
	if err := s.conn(ctx).Order("id DESC").Find(&ideas).Error; err != nil {
		return nil, fmt.Errorf("list ideas: %w", err)
	}
	return ideas, nil
}

// DeleteIdea removes the idea.
func (s *Store) DeleteIdea(ctx context.Context, id uint) error {
	if err := affected(s.conn(ctx).Delete(&model.Idea{}, id)); err != nil {
		return fmt.Errorf("delete idea %d: %w", id, err)
	}
	return nil
}
