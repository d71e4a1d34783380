// Package web serves the journal's HTML pages.
package web

import (
	"context"
	"log"

	"github.com/pathakanu/memoryjournal/internal/assistant"
	"github.com/pathakanu/memoryjournal/internal/model"
)

// Journal is the record access the handlers need.
type Journal interface {
	Ping(ctx context.Context) error

	CreateMemory(ctx context.Context, m *model.Memory) error
	SearchMemories(ctx context.Context, keyword string) ([]model.Memory, error)
	RandomMemory(ctx context.Context) (model.Memory, error)

	CreateTodo(ctx context.Context, t *model.Todo) error
	ListTodos(ctx context.Context) ([]model.Todo, error)
	MarkTodoDone(ctx context.Context, id uint) error
	DeleteTodo(ctx context.Context, id uint) error

	CreateIdea(ctx context.Context, i *model.Idea) error
	ListIdeas(ctx context.Context) ([]model.Idea, error)
	DeleteIdea(ctx context.Context, id uint) error
}

// Asker answers free-text questions.
type Asker interface {
	Ask(ctx context.Context, question string) (assistant.Result, error)
}

// Server holds the handler dependencies.
type Server struct {
	journal   Journal
	assistant Asker
	pages     *pages
	logger    *log.Logger
}

// NewServer parses the embedded templates and returns a Server.
func NewServer(journal Journal, asker Asker, logger *log.Logger) (*Server, error) {
	p, err := loadPages()
	if err != nil {
		return nil, err
	}
	return &Server{
		journal:   journal,
		assistant: asker,
		pages:     p,
		logger:    logger,
	}, nil
}
