package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const anthropicMaxTokens = 4096

// AnthropicProvider implements Provider using Anthropic's API
type AnthropicProvider struct {
	client      anthropic.Client
	model       string
	temperature float64
}

func toAnthropicMessages(messages []Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	anthropicMessages := make([]anthropic.MessageParam, 0, len(messages))
	systemPrompt := make([]anthropic.TextBlockParam, 0)

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			systemPrompt = append(systemPrompt, anthropic.TextBlockParam{Text: msg.Content})
		case RoleHuman:
			anthropicMessages = append(anthropicMessages, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		case RoleAI:
			anthropicMessages = append(anthropicMessages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return anthropicMessages, systemPrompt
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(apiKey, model string, temperature float64, baseURL string) (*AnthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &AnthropicProvider{
		client:      anthropic.NewClient(opts...),
		model:       model,
		temperature: temperature,
	}, nil
}

// Generate performs a non-streaming chat completion
func (p *AnthropicProvider) Generate(ctx context.Context, messages []Message) (Message, error) {
	anthropicMessages, systemPrompt := toAnthropicMessages(messages)

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.model),
		MaxTokens:   anthropicMaxTokens,
		Messages:    anthropicMessages,
		Temperature: anthropic.Float(p.temperature),
	}

	if len(systemPrompt) > 0 {
		params.System = systemPrompt
	}

	resp, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return Message{}, fmt.Errorf("failed to create completion: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	return AIMessage(text.String()), nil
}
