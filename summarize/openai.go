package summarize

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIBackend summarizes through any OpenAI-compatible chat completion
// endpoint.
type OpenAIBackend struct {
	client *openai.Client
	model  string
}

// NewOpenAIBackend builds a backend for one candidate model. An empty
// baseURL uses the default OpenAI endpoint.
func NewOpenAIBackend(apiKey, baseURL, model string) *OpenAIBackend {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIBackend{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (b *OpenAIBackend) Name() string {
	return "openai/" + b.model
}

const systemPrompt = "You condense web article sections. Keep every name, number, date, and quotation from the source. Never add information. Output only the condensed text, no preamble."

func (b *OpenAIBackend) Summarize(ctx context.Context, text string, p Params) (string, error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Condense the following section to between %d and %d words.", p.MinWords, p.MaxWords)
	if p.PreserveStructure {
		sb.WriteString(" Keep lists, tables, and headings in Markdown form.")
	}
	sb.WriteString("\n\n")
	sb.WriteString(text)

	temperature := float32(0.3)
	if p.Deterministic {
		temperature = 0
	}

	resp, err := b.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       b.model,
		Temperature: temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sb.String()},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion: empty choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Ping lists models, the cheapest request that proves credentials and
// connectivity for OpenAI-compatible servers.
func (b *OpenAIBackend) Ping(ctx context.Context) error {
	_, err := b.client.ListModels(ctx)
	return err
}
