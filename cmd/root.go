package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/maximbilan/llmchat/internal/config"
	"github.com/maximbilan/llmchat/internal/provider"
	"github.com/maximbilan/llmchat/internal/session"
	"github.com/maximbilan/llmchat/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logLevel string
	envFile  string
)

var rootCmd = &cobra.Command{
	Use:   "llmchat <config-file>",
	Short: "Chat with several LLMs from one terminal session",
	Long: `llmchat is an interactive CLI chat client. It loads a JSON file describing
one or more LLMs (OpenAI, Anthropic, Google), keeps a separate conversation
history for each, and lets you switch between them mid-session.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("Please provide a configuration file path")
		}
		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(logLevel)
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		return runChat(cmd.Context(), args[0], logger)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <config-file>",
	Short: "Check a configuration file and list its models",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return err
		}
		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}

		supported := provider.NewFactory().Supported()
		for _, p := range cfg.Providers {
			if !slices.Contains(supported, strings.ToLower(p.Provider)) {
				return config.Errorf("llm %s: Unsupported provider: %s (supported: %s)",
					p.Name, p.Provider, strings.Join(supported, ", "))
			}
		}

		out := cmd.OutOrStdout()
		def, _ := cfg.Provider(cfg.DefaultLLM)
		fmt.Fprintf(out, "Configuration OK: %d model(s), default %s (%s/%s)\n",
			len(cfg.Providers), def.Name, def.Provider, def.Model)
		for _, p := range cfg.Providers {
			fmt.Fprintf(out, "- %s: provider=%s model=%s temperature=%g api_key=%s\n",
				p.Name, p.Provider, p.Model, p.Temperature, maskSecret(p.APIKey))
		}
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init <config-file>",
	Short: "Write an example configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.WriteExample(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", args[0])
		fmt.Fprintln(cmd.OutOrStdout(), "Set OPENAI_API_KEY, ANTHROPIC_API_KEY and GEMINI_API_KEY (or a .env file) before starting a chat.")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the configuration")
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(initCmd)
}

func runChat(ctx context.Context, path string, logger *zap.Logger) error {
	if err := config.LoadDotEnv(envFile); err != nil {
		return err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	factory := provider.NewFactory(
		provider.WithRateLimit(cfg.RateLimitRequests, time.Duration(cfg.RateLimitWindow)*time.Second),
		provider.WithLogger(logger),
	)
	manager, err := session.New(ctx, cfg.Providers, cfg.DefaultLLM,
		session.WithDefaults(cfg.MaxTurns, cfg.SystemPrompt),
		session.WithCreator(factory),
		session.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	return ui.Run(ctx, manager, ui.Options{
		RequestTimeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		Logger:         logger,
	})
}

// newLogger builds a production logger writing to stderr at level.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// maskSecret keeps the first and last four characters of a key.
func maskSecret(value string) string {
	if len(value) <= 8 {
		return "***"
	}
	return value[:4] + "***" + value[len(value)-4:]
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
