// Package digest sends a scheduled WhatsApp summary of the open todos.
package digest

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pathakanu/memoryjournal/internal/model"
	"github.com/robfig/cron/v3"
)

// TodoSource lists todos that are not done yet.
type TodoSource interface {
	OpenTodos(ctx context.Context) ([]model.Todo, error)
}

// Sender delivers a text message to a recipient.
type Sender interface {
	SendWhatsAppMessage(to, body string) error
}

// Scheduler runs the digest on a cron schedule.
type Scheduler struct {
	todos     TodoSource
	sender    Sender
	recipient string
	schedule  string
	cron      *cron.Cron
	logger    *log.Logger
}

// New creates a Scheduler. schedule is a standard five-field cron spec
// evaluated in loc.
func New(todos TodoSource, sender Sender, recipient, schedule string, loc *time.Location, logger *log.Logger) *Scheduler {
	return &Scheduler{
		todos:     todos,
		sender:    sender,
		recipient: recipient,
		schedule:  schedule,
		cron:      cron.New(cron.WithLocation(loc)),
		logger:    logger,
	}
}

// Start registers the digest job and starts the scheduler loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if err := s.Send(context.Background()); err != nil {
			s.logger.Printf("digest: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("digest schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish and stops the scheduler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Send delivers the current digest. Nothing is sent when no todos are open.
func (s *Scheduler) Send(ctx context.Context) error {
	todos, err := s.todos.OpenTodos(ctx)
	if err != nil {
		return fmt.Errorf("load open todos: %w", err)
	}
	if len(todos) == 0 {
		return nil
	}

	if err := s.sender.SendWhatsAppMessage(s.recipient, Compose(todos)); err != nil {
		return fmt.Errorf("send digest: %w", err)
	}
	s.logger.Printf("digest: sent %d open todos", len(todos))
	return nil
}

// Compose renders todos as a numbered list in the order given.
func Compose(todos []model.Todo) string {
	var sb strings.Builder
	sb.WriteString("Your open todos:\n")
	for i, t := range todos {
		sb.WriteString(fmt.Sprintf("%d. [%s] %s", i+1, t.Priority, t.Task))
		if t.DueDate != "" {
			sb.WriteString(fmt.Sprintf(" (due %s)", t.DueDate))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
