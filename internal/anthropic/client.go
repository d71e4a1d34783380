// Package anthropic generates answers with the Anthropic Messages API.
package anthropic

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used when no model is configured.
const DefaultModel = anthropic.ModelClaudeSonnet4_0

const maxTokens = 1024

// ErrEmptyResponse is returned when the reply holds no text blocks.
var ErrEmptyResponse = errors.New("anthropic returned no text")

// Client wraps the Anthropic messages endpoint.
type Client struct {
	client  anthropic.Client
	model   anthropic.Model
	timeout time.Duration
}

// New returns a Client authenticated with apiKey.
func New(apiKey, model string, timeout time.Duration, opts ...option.RequestOption) *Client {
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	m := anthropic.Model(model)
	if model == "" {
		m = DefaultModel
	}
	return &Client{
		client:  anthropic.NewClient(opts...),
		model:   m,
		timeout: timeout,
	}
}

// Generate sends prompt as one user turn and joins the text blocks of the reply.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", err
	}

	var parts []string
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			parts = append(parts, tb.Text)
		}
	}
	if len(parts) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.Join(parts, "\n"), nil
}
