// Package session owns the set of initialized model clients, one bounded
// conversation per client, and the current selection between them.
package session

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/maximbilan/llmchat/internal/config"
	"github.com/maximbilan/llmchat/internal/conversation"
	"github.com/maximbilan/llmchat/internal/provider"
	"github.com/maximbilan/llmchat/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Creator builds a model client for one provider entry.
type Creator interface {
	Create(ctx context.Context, cfg config.ProviderConfig) (provider.Provider, error)
}

type entry struct {
	cfg     config.ProviderConfig
	client  provider.Provider
	history *conversation.Context
}

// Manager is the multi-model session registry. Its key set is fixed at
// construction. A Manager is driven by a single interactive loop and is not
// safe for concurrent use.
type Manager struct {
	id      string
	entries map[string]*entry
	order   []string
	current string
	logger  *zap.Logger
}

type options struct {
	maxTurns     int
	systemPrompt string
	creator      Creator
	logger       *zap.Logger
}

// Option configures New.
type Option func(*options)

// WithDefaults sets the session-wide history limit and system prompt used by
// entries that do not set their own.
func WithDefaults(maxTurns int, systemPrompt string) Option {
	return func(o *options) {
		o.maxTurns = maxTurns
		o.systemPrompt = systemPrompt
	}
}

// WithCreator replaces the client factory.
func WithCreator(c Creator) Option {
	return func(o *options) {
		if c != nil {
			o.creator = c
		}
	}
}

// WithLogger sets the logger state changes are reported to.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New validates providers, builds every client concurrently and returns a
// Manager selecting defaultName. If any client fails to build, no Manager is
// returned.
func New(ctx context.Context, providers []config.ProviderConfig, defaultName string, opts ...Option) (*Manager, error) {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.creator == nil {
		o.creator = provider.NewFactory(provider.WithLogger(o.logger))
	}

	if err := config.ValidateProviders(providers, defaultName); err != nil {
		return nil, err
	}

	clients := make([]provider.Provider, len(providers))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range providers {
		g.Go(func() error {
			client, err := o.creator.Create(gctx, p)
			if err != nil {
				return err
			}
			clients[i] = client
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if !config.IsError(err) {
			err = config.Wrap(err, "Failed to initialize chat model")
		}
		return nil, err
	}

	m := &Manager{
		id:      uuid.NewString(),
		entries: make(map[string]*entry, len(providers)),
		order:   make([]string, 0, len(providers)),
		current: defaultName,
		logger:  o.logger,
	}
	for i, p := range providers {
		systemPrompt := p.SystemPrompt
		if systemPrompt == "" {
			systemPrompt = o.systemPrompt
		}
		maxTurns := p.MaxTurns
		if maxTurns <= 0 {
			maxTurns = o.maxTurns
		}

		m.entries[p.Name] = &entry{
			cfg:    p,
			client: clients[i],
			history: conversation.New(conversation.Options{
				MaxTurns:     maxTurns,
				SystemPrompt: systemPrompt,
			}),
		}
		m.order = append(m.order, p.Name)
	}
	m.logger = m.logger.With(zap.String("session", m.id))

	m.logger.Info("session initialized",
		zap.Strings("models", m.order),
		zap.String("current", m.current))
	return m, nil
}

// ID returns a random identifier for log correlation.
func (m *Manager) ID() string { return m.id }

// Current returns the name of the selected model.
func (m *Manager) Current() string { return m.current }

func (m *Manager) currentEntry() (*entry, error) {
	e, ok := m.entries[m.current]
	if !ok {
		return nil, config.Errorf("Model %s is not initialized", m.current)
	}
	return e, nil
}

// CurrentModel returns the client of the selected model.
func (m *Manager) CurrentModel() (provider.Provider, error) {
	e, err := m.currentEntry()
	if err != nil {
		return nil, err
	}
	return e.client, nil
}

// CurrentContext returns the conversation of the selected model.
func (m *Manager) CurrentContext() (*conversation.Context, error) {
	e, err := m.currentEntry()
	if err != nil {
		return nil, err
	}
	return e.history, nil
}

// SwitchModel selects name. Every model keeps its own history, so switching
// back resumes where that conversation left off.
func (m *Manager) SwitchModel(name string) error {
	if _, ok := m.entries[name]; !ok {
		return config.Errorf("Model %s not found. Available models: %s", name, strings.Join(m.order, ", "))
	}
	previous := m.current
	m.current = name
	m.logger.Debug("switched model", zap.String("from", previous), zap.String("to", name))
	return nil
}

// ListAvailableModels returns the model names in configuration order.
func (m *Manager) ListAvailableModels() []string {
	return append([]string(nil), m.order...)
}

// ProviderConfig returns the configuration name was registered with.
func (m *Manager) ProviderConfig(name string) (config.ProviderConfig, bool) {
	e, ok := m.entries[name]
	if !ok {
		return config.ProviderConfig{}, false
	}
	return e.cfg, true
}

// ClearCurrentContext drops the selected model's turns, keeping its system prompt.
func (m *Manager) ClearCurrentContext() error {
	history, err := m.CurrentContext()
	if err != nil {
		return err
	}
	history.Clear()
	m.logger.Debug("cleared context", zap.String("model", m.current))
	return nil
}

// Send runs one chat turn against the selected model. The human and ai
// messages are recorded only when the model returns text; a reply with empty
// content is returned with a nil error and leaves the history unchanged.
func (m *Manager) Send(ctx context.Context, input string) (provider.Message, error) {
	if err := validation.ValidateTextInput(input); err != nil {
		return provider.Message{}, err
	}

	e, err := m.currentEntry()
	if err != nil {
		return provider.Message{}, err
	}

	messages := append(e.history.Messages(), provider.HumanMessage(input))

	m.logger.Debug("sending chat turn",
		zap.String("model", m.current),
		zap.Int("messages", len(messages)))

	reply, err := e.client.Generate(ctx, messages)
	if err != nil {
		m.logger.Debug("chat turn failed", zap.String("model", m.current), zap.Error(err))
		return provider.Message{}, err
	}
	if strings.TrimSpace(reply.Content) == "" {
		m.logger.Debug("empty response", zap.String("model", m.current))
		return provider.AIMessage(""), nil
	}

	if err := e.history.AddMessage(input, provider.RoleHuman); err != nil {
		return provider.Message{}, err
	}
	if err := e.history.AddMessage(reply.Content, provider.RoleAI); err != nil {
		return provider.Message{}, err
	}

	m.logger.Debug("chat turn recorded",
		zap.String("model", m.current),
		zap.Int("turns", e.history.Len()),
		zap.Int("max_turns", e.history.MaxTurns()))
	return provider.AIMessage(reply.Content), nil
}
