package provider

import (
	"context"
)

// Provider defines the interface for chat model backends (OpenAI, Anthropic, etc.)
type Provider interface {
	// Generate sends the conversation and returns the model's reply as an ai message
	Generate(ctx context.Context, messages []Message) (Message, error)
}

// Role identifies who authored a message
type Role string

// Role constants
const (
	RoleSystem Role = "system"
	RoleHuman  Role = "human"
	RoleAI     Role = "ai"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleSystem, RoleHuman, RoleAI:
		return true
	}
	return false
}

// Message represents a chat message
type Message struct {
	Role    Role
	Content string
}

// SystemMessage, HumanMessage and AIMessage build messages of the matching role.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }
func HumanMessage(content string) Message  { return Message{Role: RoleHuman, Content: content} }
func AIMessage(content string) Message     { return Message{Role: RoleAI, Content: content} }
