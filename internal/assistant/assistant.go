// Package assistant answers questions about the journal using a text
// generation backend seeded with the most recent memories.
package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/pathakanu/memoryjournal/internal/model"
)

const (
	// EmptyQuestionMessage is returned without calling the backend when the question is blank.
	EmptyQuestionMessage = "⚠️ Please type a question about your memories first."
	// FallbackMessage is returned once every attempt has failed.
	FallbackMessage = "⚠️ The AI assistant failed to process your question. Please try again later."
)

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// MemorySource supplies the memories used as context.
type MemorySource interface {
	RecentMemories(ctx context.Context, limit int) ([]model.Memory, error)
}

// RetryPolicy bounds calls to the Generator.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultRetryPolicy makes three attempts two seconds apart.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Delay: 2 * time.Second}

// Outcome is the terminal state of a call to Ask.
type Outcome string

const (
	OutcomeShortCircuit Outcome = "short_circuit"
	OutcomeSucceeded    Outcome = "succeeded"
	OutcomeExhausted    Outcome = "exhausted"
)

// Result is what Ask hands back for rendering.
type Result struct {
	Question string
	Answer   string
	Outcome  Outcome
	Attempts int
}

// Warning reports whether Answer holds one of the fixed warning messages.
func (r Result) Warning() bool {
	return r.Outcome != OutcomeSucceeded
}

// Assistant assembles context and queries the Generator.
type Assistant struct {
	memories     MemorySource
	generator    Generator
	contextLimit int
	policy       RetryPolicy
	logger       *log.Logger
	wait         func(ctx context.Context, d time.Duration) error
}

// New creates an Assistant. A policy with fewer than one attempt is raised to one.
func New(memories MemorySource, generator Generator, contextLimit int, policy RetryPolicy, logger *log.Logger) *Assistant {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &Assistant{
		memories:     memories,
		generator:    generator,
		contextLimit: contextLimit,
		policy:       policy,
		logger:       logger,
		wait:         sleepContext,
	}
}

// Ask answers question from the recent memories. Backend failures never
// surface as errors; the returned error is only set when the memories
// cannot be read.
func (a *Assistant) Ask(ctx context.Context, question string) (Result, error) {
	question = strings.TrimSpace(question)
	result := Result{Question: question}

	if question == "" {
		result.Answer = EmptyQuestionMessage
		result.Outcome = OutcomeShortCircuit
		return result, nil
	}

	memories, err := a.memories.RecentMemories(ctx, a.contextLimit)
	if err != nil {
		return result, fmt.Errorf("load context: %w", err)
	}
	prompt := fmt.Sprintf(promptTemplate, BuildContext(memories), question)

	for attempt := 1; attempt <= a.policy.MaxAttempts; attempt++ {
		result.Attempts = attempt

		text, err := a.generator.Generate(ctx, prompt)
		if err == nil {
			result.Answer = strings.TrimSpace(text)
			result.Outcome = OutcomeSucceeded
			return result, nil
		}
		a.logger.Printf("assistant: attempt %d/%d failed: %v", attempt, a.policy.MaxAttempts, err)

		if attempt == a.policy.MaxAttempts {
			break
		}
		if err := a.wait(ctx, a.policy.Delay); err != nil {
			a.logger.Printf("assistant: giving up: %v", err)
			break
		}
	}

	result.Answer = FallbackMessage
	result.Outcome = OutcomeExhausted
	return result, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
