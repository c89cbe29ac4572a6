// Package downstream forwards rendered prompts to an OpenAI-compatible
// text-generation agent. The core pipeline never touches this; only
// the CLI --send path does.
package downstream

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Forwarder sends prompts to a completion endpoint.
type Forwarder struct {
	client *openai.Client
	model  string
}

// New creates a Forwarder. baseURL may point at any OpenAI-compatible
// server (vLLM, Ollama, a gateway); empty means api.openai.com.
func New(baseURL, apiKey, model string) *Forwarder {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Forwarder{client: openai.NewClientWithConfig(cfg), model: model}
}

// Send submits the prompt and returns the agent's reply text.
func (f *Forwarder) Send(ctx context.Context, prompt string) (string, error) {
	resp, err := f.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: f.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("forwarding prompt: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("downstream returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
