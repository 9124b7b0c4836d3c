package adapter

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/m-mizutani/goerr/v2"
)

// ClaudeClient provides text completion via the Anthropic API.
type ClaudeClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

type ClaudeOption func(*ClaudeClient)

func WithClaudeModel(model string) ClaudeOption {
	return func(c *ClaudeClient) {
		if model != "" {
			c.model = anthropic.Model(model)
		}
	}
}

func WithClaudeMaxTokens(n int64) ClaudeOption {
	return func(c *ClaudeClient) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

func NewClaude(apiKey string, opts ...ClaudeOption) *ClaudeClient {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	c := &ClaudeClient{
		client:    &client,
		model:     anthropic.ModelClaudeSonnet4_0,
		maxTokens: 1024,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *ClaudeClient) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to call claude")
	}

	var sb strings.Builder
	for _, content := range message.Content {
		if content.Type == "text" {
			text := content.AsText()
			sb.WriteString(text.Text)
		}
	}
	if sb.Len() == 0 {
		return "", goerr.New("claude returned no text content")
	}
	return sb.String(), nil
}
