// Package llm wraps the Anthropic messages API behind a small interface so
// agents can run without a configured credential and tests can substitute a
// canned client.
package llm

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const (
	// DefaultModel is the model used for plan synthesis and free-text replies.
	DefaultModel = "claude-sonnet-4-5-20250929"

	// DefaultMaxTokens bounds a single completion.
	DefaultMaxTokens = 2048
)

// Role of a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of conversation history.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request describes one completion call.
type Request struct {
	System    string
	Messages  []Message
	MaxTokens int64
}

// Client is the completion interface agents depend on. A nil Client means
// no credential is configured; callers fall back to keyword-only behavior.
type Client interface {
	Complete(ctx context.Context, req *Request) (string, error)
}

// AnthropicClient implements Client over the Anthropic SDK.
type AnthropicClient struct {
	client anthropic.Client
	model  anthropic.Model
}

// NewAnthropicClient creates a client for the given API key. Returns nil
// when the key is empty so callers can test for the unconfigured case.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	if apiKey == "" {
		return nil
	}
	return &AnthropicClient{
		client: anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:  anthropic.Model(DefaultModel),
	}
}

func (c *AnthropicClient) Complete(ctx context.Context, req *Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: maxTokens,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	for _, m := range req.Messages {
		switch m.Role {
		case RoleAssistant:
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			params.Messages = append(params.Messages, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	message, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic completion failed: %w", err)
	}

	// Only the first text block is used.
	for _, block := range message.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", nil
}
