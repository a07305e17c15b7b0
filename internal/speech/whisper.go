// Package speech wraps the external speech-to-text capability.
package speech

import (
	"bytes"
	"context"

	openai "github.com/sashabaranov/go-openai"

	"telemed-ai/internal/errs"
)

// WhisperClient transcribes audio through an OpenAI-compatible audio API
// (Groq hosts Whisper behind the same surface).
type WhisperClient struct {
	client *openai.Client
	model  string
}

func NewWhisperClient(apiKey, baseURL, model string) *WhisperClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &WhisperClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Transcribe converts audio bytes to text. The filename carries the format
// hint the API needs; language is pinned to English as the upstream service
// expects.
func (c *WhisperClient) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		Reader:   bytes.NewReader(audio),
		FilePath: filename,
		Language: "en",
		Format:   openai.AudioResponseFormatText,
	})
	if err != nil {
		return "", errs.Wrap(errs.KindExternalService, err, "transcribe audio")
	}
	return resp.Text, nil
}
