package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// ChatClient is the single-call interface the conversation service
// depends on. One prompt in, one completion out; no streaming, no
// retries — callers substitute canned fallbacks on error.
type ChatClient interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned when no API key was provided.
var ErrNotConfigured = errors.New("model client not configured")

type openAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient builds a ChatClient over the OpenAI chat-completions
// API. baseURL may be empty for the default endpoint; a custom value
// lets deployments point at a compatible gateway.
func NewOpenAIClient(apiKey, baseURL, model string) ChatClient {
	if apiKey == "" {
		return &unconfiguredClient{}
	}
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &openAIClient{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func (c *openAIClient) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// unconfiguredClient fails every call so the orchestrator's fallback
// path engages when no credential is present.
type unconfiguredClient struct{}

func (*unconfiguredClient) Complete(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
