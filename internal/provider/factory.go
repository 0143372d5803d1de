package provider

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/maximbilan/llmchat/internal/config"
	"go.uber.org/zap"
)

// Supported provider tags
const (
	OpenAI    = "openai"
	Anthropic = "anthropic"
	Google    = "google"
	Mock      = "mock"
)

// Constructor builds a Provider for one config entry.
type Constructor func(ctx context.Context, cfg config.ProviderConfig) (Provider, error)

// Factory turns provider configs into ready clients by dispatching on the
// provider tag. It is safe for concurrent Create calls once configured.
type Factory struct {
	constructors map[string]Constructor
	rateRequests int
	rateWindow   time.Duration
	logger       *zap.Logger
}

// FactoryOption configures a Factory.
type FactoryOption func(*Factory)

// WithRateLimit limits every created provider to requests per window.
func WithRateLimit(requests int, window time.Duration) FactoryOption {
	return func(f *Factory) {
		f.rateRequests = requests
		f.rateWindow = window
	}
}

// WithLogger sets the logger used to report client construction.
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFactory returns a Factory with the built-in backends registered.
func NewFactory(opts ...FactoryOption) *Factory {
	f := &Factory{
		constructors: make(map[string]Constructor),
		logger:       zap.NewNop(),
	}

	f.Register(OpenAI, func(_ context.Context, cfg config.ProviderConfig) (Provider, error) {
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.Temperature, cfg.BaseURL)
	})
	f.Register(Anthropic, func(_ context.Context, cfg config.ProviderConfig) (Provider, error) {
		return NewAnthropicProvider(cfg.APIKey, cfg.Model, cfg.Temperature, cfg.BaseURL)
	})
	f.Register(Google, func(ctx context.Context, cfg config.ProviderConfig) (Provider, error) {
		return NewGoogleProvider(ctx, cfg.APIKey, cfg.Model, cfg.Temperature, cfg.BaseURL)
	})
	f.Register(Mock, func(context.Context, config.ProviderConfig) (Provider, error) {
		return NewMockProvider(), nil
	})

	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Register adds or replaces the constructor for a provider tag. Tags are
// matched case-insensitively.
func (f *Factory) Register(name string, c Constructor) {
	f.constructors[strings.ToLower(name)] = c
}

// Supported lists the registered provider tags in sorted order.
func (f *Factory) Supported() []string {
	names := make([]string, 0, len(f.constructors))
	for name := range f.constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create builds the client for cfg. Unknown tags and constructor failures
// are reported as *config.Error.
func (f *Factory) Create(ctx context.Context, cfg config.ProviderConfig) (Provider, error) {
	f.logger.Debug("initializing chat model",
		zap.String("name", cfg.Name),
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model))

	construct, ok := f.constructors[strings.ToLower(cfg.Provider)]
	if !ok {
		f.logger.Debug("unsupported provider",
			zap.String("provider", cfg.Provider),
			zap.Strings("supported", f.Supported()))
		return nil, config.Errorf("Unsupported provider: %s", cfg.Provider)
	}

	p, err := construct(ctx, cfg)
	if err != nil {
		f.logger.Debug("error initializing chat model", zap.String("name", cfg.Name), zap.Error(err))
		var ce *config.Error
		if errors.As(err, &ce) {
			return nil, err
		}
		return nil, config.Wrap(err, "Failed to initialize chat model")
	}

	limited := RateLimited(p, f.rateRequests, f.rateWindow)
	if rl, ok := limited.(*rateLimited); ok {
		f.logger.Debug("rate limit applied",
			zap.String("name", cfg.Name),
			zap.Float64("requests_per_second", rl.limiter.Limit()))
	}
	return limited, nil
}
