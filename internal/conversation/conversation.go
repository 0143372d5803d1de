// Package conversation keeps the bounded message history sent to a model.
package conversation

import (
	"fmt"

	"github.com/maximbilan/llmchat/internal/provider"
)

// DefaultMaxTurns bounds the history when no limit is configured.
const DefaultMaxTurns = 10

// Options configures a new Context.
type Options struct {
	// MaxTurns caps the number of human/ai messages kept; values <= 0 mean DefaultMaxTurns.
	MaxTurns int
	// SystemPrompt, when non-empty, seeds the system preamble.
	SystemPrompt string
}

// Context is an ordered, size-bounded message log for one model. System
// messages form a preamble that is never evicted and never counted against
// the turn limit. A Context is not safe for concurrent use.
type Context struct {
	system   []provider.Message
	turns    []provider.Message
	maxTurns int
}

// New creates an empty Context.
func New(opts Options) *Context {
	c := &Context{maxTurns: opts.MaxTurns}
	if c.maxTurns <= 0 {
		c.maxTurns = DefaultMaxTurns
	}
	if opts.SystemPrompt != "" {
		c.system = append(c.system, provider.SystemMessage(opts.SystemPrompt))
	}
	return c
}

// AddMessage records one message. Human and ai messages are appended to the
// turns, evicting the oldest ones once the limit is exceeded. System messages
// join the preamble instead, so they are never evicted.
func (c *Context) AddMessage(content string, role provider.Role) error {
	if !role.Valid() {
		return fmt.Errorf("unknown message role %q", role)
	}

	if role == provider.RoleSystem {
		c.system = append(c.system, provider.SystemMessage(content))
		return nil
	}

	c.turns = append(c.turns, provider.Message{Role: role, Content: content})
	if excess := len(c.turns) - c.maxTurns; excess > 0 {
		c.turns = append(c.turns[:0:0], c.turns[excess:]...)
	}
	return nil
}

// Messages returns the system preamble followed by the turns in
// chronological order. The returned slice is a copy.
func (c *Context) Messages() []provider.Message {
	out := make([]provider.Message, 0, len(c.system)+len(c.turns))
	out = append(out, c.system...)
	return append(out, c.turns...)
}

// Clear drops every turn and keeps the system preamble.
func (c *Context) Clear() {
	c.turns = nil
}

// Len returns the number of turns currently held.
func (c *Context) Len() int { return len(c.turns) }

// MaxTurns returns the turn limit.
func (c *Context) MaxTurns() int { return c.maxTurns }
