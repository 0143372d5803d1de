package config

import (
	"strings"

	"github.com/maximbilan/llmchat/internal/validation"
)

// ValidateProvider checks the fields of a single provider entry. The provider
// tag itself is only checked for presence; whether it is supported is decided
// by the client factory.
func ValidateProvider(p ProviderConfig) error {
	if err := validation.ValidateRequired("model", p.Model); err != nil {
		return Wrap(err, "llm "+p.Name)
	}
	if err := validation.ValidateRequired("provider", p.Provider); err != nil {
		return Wrap(err, "llm "+p.Name)
	}
	if err := validation.ValidateRequired("api_key", p.APIKey); err != nil {
		return Wrap(err, "llm "+p.Name)
	}
	if err := validation.ValidateTemperature(p.Temperature); err != nil {
		return Wrap(err, "llm "+p.Name)
	}
	if p.MaxTurns < 0 {
		return Errorf("llm %s: max_turns must be positive, got %d", p.Name, p.MaxTurns)
	}
	return nil
}

// ValidateProviders checks a full provider set against the selected default
// before any client is built.
func ValidateProviders(providers []ProviderConfig, defaultName string) error {
	if len(providers) == 0 {
		return Errorf("Missing llms configuration: at least one llm must be configured")
	}
	if strings.TrimSpace(defaultName) == "" {
		return Errorf("Missing default_llm")
	}

	seen := make(map[string]bool, len(providers))
	for _, p := range providers {
		if strings.TrimSpace(p.Name) == "" {
			return Errorf("llm name cannot be empty")
		}
		if seen[p.Name] {
			return Errorf("duplicate llm name %q", p.Name)
		}
		seen[p.Name] = true

		if err := ValidateProvider(p); err != nil {
			return err
		}
	}

	if !seen[defaultName] {
		return Errorf("default_llm %q is not one of the configured llms", defaultName)
	}
	return nil
}

// Validate checks a loaded Config.
func Validate(cfg *Config) error {
	if cfg == nil {
		return Errorf("Invalid configuration format")
	}
	if cfg.MaxTurns < 0 {
		return Errorf("max_turns must be positive, got %d", cfg.MaxTurns)
	}
	if cfg.RequestTimeoutSeconds < 0 {
		return Errorf("request_timeout_seconds cannot be negative, got %d", cfg.RequestTimeoutSeconds)
	}
	return ValidateProviders(cfg.Providers, cfg.DefaultLLM)
}
