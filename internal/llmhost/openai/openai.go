// Package openai adapts the OpenAI chat completions API into the
// orchestrator's CallModel boundary via github.com/sashabaranov/go-openai.
package openai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Host runs prompts through the OpenAI chat completions API.
type Host struct {
	client *openai.Client
	model  string
}

// New builds a Host. apiKey must be non-empty.
func New(apiKey, model string) (*Host, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai: api key is required")
	}
	if model == "" {
		model = "gpt-4o"
	}
	return &Host{client: openai.NewClient(apiKey), model: model}, nil
}

// CallModel sends prompt as a single user message and returns the first
// choice's content. It satisfies orchestrator.CallModel.
func (h *Host) CallModel(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: h.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	}

	resp, err := h.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: response contained no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
