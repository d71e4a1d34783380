package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pathakanu/memoryjournal/internal/model"
	"gorm.io/gorm"
)

const memoryOrder = "date DESC, id DESC"

// memorySearch matches a lowercased, escaped pattern so SQLite and PostgreSQL agree.
const memorySearch = `LOWER(person) LIKE ? ESCAPE '\' OR LOWER(event) LIKE ? ESCAPE '\' OR ` +
	`LOWER(details) LIKE ? ESCAPE '\' OR LOWER(tags) LIKE ? ESCAPE '\'`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// CreateMemory inserts m and sets its ID.
func (s *Store) CreateMemory(ctx context.Context, m *model.Memory) error {
	if err := s.conn(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("create memory: %w", err)
	}
	return nil
}

// SearchMemories returns memories whose person, event, details or tags
// contain keyword, ignoring case. Wildcard characters in keyword match
// literally. An empty keyword matches nothing.
func (s *Store) SearchMemories(ctx context.Context, keyword string) ([]model.Memory, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, nil
	}

	pattern := "%" + likeEscaper.Replace(strings.ToLower(keyword)) + "%"
	var memories []model.Memory
	err := s.conn(ctx).
		Where(memorySearch, pattern, pattern, pattern, pattern).
		Order(memoryOrder).
		Find(&memories).Error
	if err != nil {
		return nil, fmt.Errorf("search memories: %w", err)
	}
	return memories, nil
}

// RecentMemories returns at most limit memories, newest date first.
func (s *Store) RecentMemories(ctx context.Context, limit int) ([]model.Memory, error) {
	var memories []model.Memory
	err := s.conn(ctx).
		Order(memoryOrder).
		Limit(limit).
		Find(&memories).Error
	if err != nil {
		return nil, fmt.Errorf("recent memories: %w", err)
	}
	return memories, nil
}

// RandomMemory picks one memory at random.
func (s *Store) RandomMemory(ctx context.Context) (model.Memory, error) {
	var memory model.Memory
	err := s.conn(ctx).Order("RANDOM()").Take(&memory).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Memory{}, ErrNotFound
	}
	if err != nil {
		return model.Memory{}, fmt.Errorf("random memory: %w", err)
	}
	return memory, nil
}
