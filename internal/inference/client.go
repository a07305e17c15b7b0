package inference

import (
	"context"

	openai "github.com/sashabaranov/go-openai"

	"telemed-ai/internal/errs"
)

// Completer is the raw text-in/text-out boundary to the external inference
// capability. Output is untrusted and must be schema-validated by the caller.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// ChatTurn is one message of a free-form chat exchange.
type ChatTurn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// GroqClient talks to an OpenAI-compatible chat completion API. Groq exposes
// one, so the same client serves Groq-hosted Llama models.
type GroqClient struct {
	client      *openai.Client
	model       string
	temperature float32
}

func NewGroqClient(apiKey, baseURL, model string) *GroqClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &GroqClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: 0.3,
	}
}

func (c *GroqClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: c.temperature,
	})
	if err != nil {
		return "", errs.Wrap(errs.KindExternalService, err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errs.New(errs.KindExternalService, "completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Chat sends a system prompt plus the full caller-held history and returns
// the assistant reply. Unknown roles are coerced to user.
func (c *GroqClient) Chat(ctx context.Context, system string, turns []ChatTurn) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(turns)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, t := range turns {
		role := t.Role
		if role != openai.ChatMessageRoleUser && role != openai.ChatMessageRoleAssistant {
			role = openai.ChatMessageRoleUser
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: role, Content: t.Content})
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    msgs,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", errs.Wrap(errs.KindExternalService, err, "chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", errs.New(errs.KindExternalService, "completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
