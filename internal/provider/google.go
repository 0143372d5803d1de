package provider

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// GoogleProvider implements Provider using the Gemini API
type GoogleProvider struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGoogleProvider creates a new Gemini provider
func NewGoogleProvider(ctx context.Context, apiKey, model string, temperature float64, baseURL string) (*GoogleProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		return nil, fmt.Errorf("model is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cc.HTTPOptions.BaseURL = baseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GoogleProvider{
		client:      client,
		model:       model,
		temperature: float32(temperature),
	}, nil
}

// toGenaiContents splits system messages into a system instruction; Gemini
// calls the assistant role "model".
func toGenaiContents(messages []Message) ([]*genai.Content, *genai.Content) {
	contents := make([]*genai.Content, 0, len(messages))
	var system *genai.Content

	for _, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			if system == nil {
				system = &genai.Content{}
			}
			system.Parts = append(system.Parts, &genai.Part{Text: msg.Content})
		case RoleHuman:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		case RoleAI:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		}
	}

	return contents, system
}

// Generate performs a non-streaming content generation
func (p *GoogleProvider) Generate(ctx context.Context, messages []Message) (Message, error) {
	contents, system := toGenaiContents(messages)

	temp := p.temperature
	gc := &genai.GenerateContentConfig{
		Temperature:       &temp,
		SystemInstruction: system,
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, contents, gc)
	if err != nil {
		return Message{}, fmt.Errorf("failed to generate content: %w", err)
	}

	var text strings.Builder
	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" && !part.Thought {
				text.WriteString(part.Text)
			}
		}
	}

	return AIMessage(text.String()), nil
}
