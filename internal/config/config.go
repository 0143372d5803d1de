package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	// ConfigDirPerm is the permission for directories created for a config file (0700 = rwx------)
	ConfigDirPerm os.FileMode = 0700
	// ConfigFilePerm is the permission for written config files (0600 = rw-------)
	// Restrictive permissions protect the API keys from being read by other users
	ConfigFilePerm os.FileMode = 0600

	// EnvPrefix prefixes environment variables that override top-level settings,
	// e.g. LLMCHAT_DEFAULT_LLM or LLMCHAT_MAX_TURNS.
	EnvPrefix = "LLMCHAT"

	DefaultMaxTurns              = 10
	DefaultRequestTimeoutSeconds = 120
	DefaultRateLimitRequests     = 60
	DefaultRateLimitWindow       = 60
)

// ProviderConfig describes one configured llm. Name is the key it was
// registered under in the llms object.
type ProviderConfig struct {
	Name         string
	Provider     string
	Model        string
	Temperature  float64
	APIKey       string
	SystemPrompt string
	MaxTurns     int
	BaseURL      string
}

// Config is the validated application configuration. Providers keeps the
// order in which the llms appear in the file.
type Config struct {
	DefaultLLM            string `mapstructure:"default_llm"`
	MaxTurns              int    `mapstructure:"max_turns"`
	SystemPrompt          string `mapstructure:"system_prompt"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds"`
	RateLimitRequests     int    `mapstructure:"rate_limit_requests"`
	RateLimitWindow       int    `mapstructure:"rate_limit_window_seconds"`

	Providers []ProviderConfig `mapstructure:"-"`
}

// Provider returns the entry registered under name.
func (c *Config) Provider(name string) (ProviderConfig, bool) {
	for _, p := range c.Providers {
		if p.Name == name {
			return p, true
		}
	}
	return ProviderConfig{}, false
}

type fileProvider struct {
	Model        string   `json:"model"`
	Provider     string   `json:"provider"`
	Temperature  *float64 `json:"temperature"`
	APIKey       string   `json:"api_key"`
	SystemPrompt string   `json:"system_prompt,omitempty"`
	MaxTurns     int      `json:"max_turns,omitempty"`
	BaseURL      string   `json:"base_url,omitempty"`
}

// fileLLMs decodes only the llms object; viper lowercases keys and loses
// their order, so provider entries bypass it.
type fileLLMs struct {
	LLMs *orderedmap.OrderedMap[string, fileProvider] `json:"llms"`
}

// LoadDotEnv loads variables from a .env file into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Load reads, expands and validates the config file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Wrap(err, "failed to read config file")
	}
	return Parse(data)
}

// Parse expands ${VAR} placeholders in data, decodes it and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := []byte(ExpandEnv(string(data)))

	var llms fileLLMs
	if err := json.Unmarshal(expanded, &llms); err != nil {
		return nil, Wrap(err, "failed to parse config")
	}

	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault("default_llm", "")
	v.SetDefault("max_turns", DefaultMaxTurns)
	v.SetDefault("system_prompt", "")
	v.SetDefault("request_timeout_seconds", DefaultRequestTimeoutSeconds)
	v.SetDefault("rate_limit_requests", DefaultRateLimitRequests)
	v.SetDefault("rate_limit_window_seconds", DefaultRateLimitWindow)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadConfig(bytes.NewReader(expanded)); err != nil {
		return nil, Wrap(err, "failed to parse config")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, Wrap(err, "failed to decode config")
	}

	if llms.LLMs != nil {
		cfg.Providers = make([]ProviderConfig, 0, llms.LLMs.Len())
		for pair := llms.LLMs.Oldest(); pair != nil; pair = pair.Next() {
			fp := pair.Value
			if fp.Temperature == nil {
				return nil, Errorf("llm %s: invalid or missing temperature (should be between 0 and 1)", pair.Key)
			}
			cfg.Providers = append(cfg.Providers, ProviderConfig{
				Name:         pair.Key,
				Provider:     fp.Provider,
				Model:        fp.Model,
				Temperature:  *fp.Temperature,
				APIKey:       fp.APIKey,
				SystemPrompt: fp.SystemPrompt,
				MaxTurns:     fp.MaxTurns,
				BaseURL:      fp.BaseURL,
			})
		}
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type exampleFile struct {
	DefaultLLM            string                                       `json:"default_llm"`
	MaxTurns              int                                          `json:"max_turns"`
	SystemPrompt          string                                       `json:"system_prompt"`
	RequestTimeoutSeconds int                                          `json:"request_timeout_seconds"`
	LLMs                  *orderedmap.OrderedMap[string, fileProvider] `json:"llms"`
}

// WriteExample writes a starter config to path. Existing files are never
// overwritten.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file %s already exists", path)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, ConfigDirPerm); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	gptTemp, claudeTemp, geminiTemp := 0.7, 0.5, 0.7
	llms := orderedmap.New[string, fileProvider]()
	llms.Set("gpt", fileProvider{
		Model:       "gpt-4o",
		Provider:    "openai",
		Temperature: &gptTemp,
		APIKey:      "${OPENAI_API_KEY}",
	})
	llms.Set("claude", fileProvider{
		Model:       "claude-sonnet-4-5",
		Provider:    "anthropic",
		Temperature: &claudeTemp,
		APIKey:      "${ANTHROPIC_API_KEY}",
	})
	llms.Set("gemini", fileProvider{
		Model:       "gemini-2.5-flash",
		Provider:    "google",
		Temperature: &geminiTemp,
		APIKey:      "${GEMINI_API_KEY}",
	})

	data, err := json.MarshalIndent(exampleFile{
		DefaultLLM:            "gpt",
		MaxTurns:              DefaultMaxTurns,
		SystemPrompt:          "You are a helpful assistant.",
		RequestTimeoutSeconds: DefaultRequestTimeoutSeconds,
		LLMs:                  llms,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal example config: %w", err)
	}

	if err := os.WriteFile(path, append(data, '\n'), ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
