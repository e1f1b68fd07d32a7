package values

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/sashabaranov/go-openai"
)

var ErrNoChoices = errors.New("model returned no choices")

// openAIClient talks to an OpenAI compatible chat-completions endpoint.
type openAIClient struct {
	api   *openai.Client
	model string
}

func NewOpenAIClient(baseURL, apiKey, model string) Completer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	return &openAIClient{api: openai.NewClientWithConfig(cfg), model: model}
}

func (c *openAIClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: lo.Map(messages, func(m ChatMessage, _ int) openai.ChatCompletionMessage {
			return openai.ChatCompletionMessage{Role: m.Role, Content: m.Content}
		}),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}
