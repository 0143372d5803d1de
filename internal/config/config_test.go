package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoProviderConfig = `{
  "default_llm": "a",
  "llms": {
    "a": {"provider": "openai", "model": "gpt-x", "temperature": 0.2, "api_key": "k"},
    "b": {"provider": "anthropic", "model": "claude-x", "temperature": 0.5, "api_key": "k2", "system_prompt": "be brief"}
  }
}`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func providerNames(cfg *Config) []string {
	names := make([]string, 0, len(cfg.Providers))
	for _, p := range cfg.Providers {
		names = append(names, p.Name)
	}
	return names
}

func TestLoad(t *testing.T) {
	t.Run("load two providers in file order", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, twoProviderConfig))
		require.NoError(t, err)

		assert.Equal(t, "a", cfg.DefaultLLM)
		assert.Equal(t, []string{"a", "b"}, providerNames(cfg))

		b, ok := cfg.Provider("b")
		require.True(t, ok)
		assert.Equal(t, "anthropic", b.Provider)
		assert.Equal(t, "claude-x", b.Model)
		assert.Equal(t, 0.5, b.Temperature)
		assert.Equal(t, "k2", b.APIKey)
		assert.Equal(t, "be brief", b.SystemPrompt)
	})

	t.Run("order is preserved for non-alphabetical names", func(t *testing.T) {
		content := `{"default_llm": "zeta", "llms": {
			"zeta": {"provider": "openai", "model": "m", "temperature": 0, "api_key": "k"},
			"alpha": {"provider": "openai", "model": "m", "temperature": 1, "api_key": "k"},
			"Mid": {"provider": "google", "model": "m", "temperature": 0.3, "api_key": "k"}
		}}`
		cfg, err := Load(writeConfig(t, content))
		require.NoError(t, err)
		assert.Equal(t, []string{"zeta", "alpha", "Mid"}, providerNames(cfg))
	})

	t.Run("defaults applied", func(t *testing.T) {
		cfg, err := Load(writeConfig(t, twoProviderConfig))
		require.NoError(t, err)

		assert.Equal(t, DefaultMaxTurns, cfg.MaxTurns)
		assert.Equal(t, "", cfg.SystemPrompt)
		assert.Equal(t, DefaultRequestTimeoutSeconds, cfg.RequestTimeoutSeconds)
		assert.Equal(t, DefaultRateLimitRequests, cfg.RateLimitRequests)
		assert.Equal(t, DefaultRateLimitWindow, cfg.RateLimitWindow)
	})

	t.Run("top-level settings read from file", func(t *testing.T) {
		content := `{"default_llm": "a", "max_turns": 4, "system_prompt": "hi", "request_timeout_seconds": 0,
			"llms": {"a": {"provider": "openai", "model": "m", "temperature": 0.1, "api_key": "k"}}}`
		cfg, err := Load(writeConfig(t, content))
		require.NoError(t, err)

		assert.Equal(t, 4, cfg.MaxTurns)
		assert.Equal(t, "hi", cfg.SystemPrompt)
		assert.Equal(t, 0, cfg.RequestTimeoutSeconds)
	})

	t.Run("environment overrides top-level settings", func(t *testing.T) {
		t.Setenv("LLMCHAT_DEFAULT_LLM", "b")
		t.Setenv("LLMCHAT_MAX_TURNS", "3")

		cfg, err := Load(writeConfig(t, twoProviderConfig))
		require.NoError(t, err)
		assert.Equal(t, "b", cfg.DefaultLLM)
		assert.Equal(t, 3, cfg.MaxTurns)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.True(t, IsError(err))
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})
}

func TestLoadSubstitutesEnvironment(t *testing.T) {
	t.Setenv("TEST_OPENAI_KEY", "sk-from-env")

	content := `{"default_llm": "a", "llms": {
		"a": {"provider": "openai", "model": "m", "temperature": 0.2, "api_key": "${TEST_OPENAI_KEY}"}
	}}`
	cfg, err := Load(writeConfig(t, content))
	require.NoError(t, err)

	a, _ := cfg.Provider("a")
	assert.Equal(t, "sk-from-env", a.APIKey)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "invalid json",
			content: `{"default_llm": "a", "llms": {`,
		},
		{
			name:    "empty llms",
			content: `{"default_llm": "a", "llms": {}}`,
		},
		{
			name:    "missing llms",
			content: `{"default_llm": "a"}`,
		},
		{
			name:    "default not configured",
			content: `{"default_llm": "c", "llms": {"a": {"provider": "openai", "model": "m", "temperature": 0.2, "api_key": "k"}}}`,
		},
		{
			name:    "missing default",
			content: `{"llms": {"a": {"provider": "openai", "model": "m", "temperature": 0.2, "api_key": "k"}}}`,
		},
		{
			name:    "temperature out of range",
			content: `{"default_llm": "a", "llms": {"a": {"provider": "openai", "model": "m", "temperature": 1.5, "api_key": "k"}}}`,
		},
		{
			name:    "temperature missing",
			content: `{"default_llm": "a", "llms": {"a": {"provider": "openai", "model": "m", "api_key": "k"}}}`,
		},
		{
			name:    "temperature not a number",
			content: `{"default_llm": "a", "llms": {"a": {"provider": "openai", "model": "m", "temperature": "hot", "api_key": "k"}}}`,
		},
		{
			name:    "model missing",
			content: `{"default_llm": "a", "llms": {"a": {"provider": "openai", "temperature": 0.2, "api_key": "k"}}}`,
		},
		{
			name:    "provider missing",
			content: `{"default_llm": "a", "llms": {"a": {"model": "m", "temperature": 0.2, "api_key": "k"}}}`,
		},
		{
			name:    "api key missing",
			content: `{"default_llm": "a", "llms": {"a": {"provider": "openai", "model": "m", "temperature": 0.2}}}`,
		},
		{
			name:    "negative max turns",
			content: `{"default_llm": "a", "max_turns": -1, "llms": {"a": {"provider": "openai", "model": "m", "temperature": 0.2, "api_key": "k"}}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.content))
			if err == nil {
				t.Fatalf("Parse() = %+v, want error", cfg)
			}
			if !IsError(err) {
				t.Fatalf("Parse() error = %T %v, want *config.Error", err, err)
			}
		})
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("LLMCHAT_TEST_A", "alpha")
	t.Setenv("LLMCHAT_TEST_EMPTY", "")
	t.Setenv("LLMCHAT_TEST_QUOTE", "say \"hi\"\nthen stop")
	t.Setenv("LLMCHAT_TEST_NUM", "12")

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "single", raw: `"${LLMCHAT_TEST_A}"`, want: `"alpha"`},
		{name: "repeated", raw: `${LLMCHAT_TEST_A}-${LLMCHAT_TEST_A}`, want: `alpha-alpha`},
		{name: "set but empty", raw: `[${LLMCHAT_TEST_EMPTY}]`, want: `[]`},
		{name: "unset left untouched", raw: `${LLMCHAT_TEST_UNSET_VAR}`, want: `${LLMCHAT_TEST_UNSET_VAR}`},
		{name: "bare dollar ignored", raw: `$LLMCHAT_TEST_A`, want: `$LLMCHAT_TEST_A`},
		{name: "quote escaped in string", raw: `{"p": "${LLMCHAT_TEST_QUOTE}"}`, want: `{"p": "say \"hi\"\nthen stop"}`},
		{name: "raw outside string", raw: `{"n": ${LLMCHAT_TEST_NUM}}`, want: `{"n": 12}`},
		{name: "escaped quote keeps string state", raw: `"a\" ${LLMCHAT_TEST_QUOTE}"`, want: `"a\" say \"hi\"\nthen stop"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandEnv(tt.raw); got != tt.want {
				t.Errorf("ExpandEnv(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseEnvValueWithQuotes(t *testing.T) {
	t.Setenv("LLMCHAT_TEST_PROMPT", "Say \"hi\"\nthen stop")

	cfg, err := Parse([]byte(`{
		"default_llm": "a",
		"system_prompt": "${LLMCHAT_TEST_PROMPT}",
		"llms": {"a": {"model": "m", "provider": "mock", "temperature": 0.1, "api_key": "k"}}
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Say \"hi\"\nthen stop", cfg.SystemPrompt)
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("variables are loaded", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("LLMCHAT_DOTENV_TEST=from-dotenv\n"), 0600))
		t.Cleanup(func() { os.Unsetenv("LLMCHAT_DOTENV_TEST") })

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "from-dotenv", os.Getenv("LLMCHAT_DOTENV_TEST"))
	})
}

func TestWriteExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "llmchat.json")
	require.NoError(t, WriteExample(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, ConfigFilePerm, info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "gpt", raw["default_llm"])
	assert.Contains(t, string(data), "${OPENAI_API_KEY}")

	t.Setenv("OPENAI_API_KEY", "k1")
	t.Setenv("ANTHROPIC_API_KEY", "k2")
	t.Setenv("GEMINI_API_KEY", "k3")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt", "claude", "gemini"}, providerNames(cfg))

	assert.Error(t, WriteExample(path), "existing file must not be overwritten")
}
