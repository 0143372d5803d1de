package provider

import (
	"context"
	"fmt"
	"math"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider using OpenAI's API
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAIProvider creates a new OpenAI provider. baseURL may be empty to use
// the public endpoint, or point at any OpenAI-compatible server.
func NewOpenAIProvider(apiKey, model string, temperature float64, baseURL string) (*OpenAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	temp := float32(temperature)
	if temp == 0 {
		// the request field is omitempty, so a literal zero would fall back to the API default
		temp = math.SmallestNonzeroFloat32
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temp,
	}, nil
}

func toOpenAIMessages(messages []Message) []openai.ChatCompletionMessage {
	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		role := openai.ChatMessageRoleUser
		switch msg.Role {
		case RoleSystem:
			role = openai.ChatMessageRoleSystem
		case RoleAI:
			role = openai.ChatMessageRoleAssistant
		}
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}
	return openaiMessages
}

// Generate performs a non-streaming chat completion
func (p *OpenAIProvider) Generate(ctx context.Context, messages []Message) (Message, error) {
	req := openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    toOpenAIMessages(messages),
		Temperature: p.temperature,
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Message{}, fmt.Errorf("failed to create completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return AIMessage(""), nil
	}

	return AIMessage(resp.Choices[0].Message.Content), nil
}
