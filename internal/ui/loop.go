package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/maximbilan/llmchat/internal/clipboard"
	"github.com/maximbilan/llmchat/internal/provider"
	"github.com/maximbilan/llmchat/internal/session"
	"github.com/peterh/liner"
	"go.uber.org/zap"
	"golang.org/x/term"
)

const (
	promptText       = "You: "
	noResponseText   = "Sorry, I could not generate a response."
	unknownCmdText   = "Unknown command. Available commands: /list, /switch <model-name>, /history, /clear, /copy, /help"
	processingText   = "Processing..."
	sessionEndedText = "Chat session ended. Goodbye!"
)

// LineReader reads one line of user input after showing prompt.
type LineReader interface {
	Prompt(prompt string) (string, error)
}

// Options configures the chat loop.
type Options struct {
	// RequestTimeout bounds each chat turn; zero means no timeout.
	RequestTimeout time.Duration
	Logger         *zap.Logger
	// Spinner animates "Processing..." while a turn runs. Only useful on a terminal.
	Spinner bool
	// Copy writes text to the clipboard; defaults to the system clipboard.
	Copy func(string) error
}

// Loop dispatches user lines to a session: slash commands, quit words, or
// chat turns. One line is fully handled before the next is read.
type Loop struct {
	session   *session.Manager
	in        LineReader
	out       io.Writer
	errOut    io.Writer
	opts      Options
	logger    *zap.Logger
	lastReply string
}

// NewLoop creates a Loop reading from in and writing to out and errOut.
func NewLoop(m *session.Manager, in LineReader, out, errOut io.Writer, opts Options) *Loop {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.Copy
	}
	return &Loop{
		session: m,
		in:      in,
		out:     out,
		errOut:  errOut,
		opts:    opts,
		logger:  logger,
	}
}

// Run starts an interactive session on the process terminal.
func Run(ctx context.Context, m *session.Manager, opts Options) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	opts.Spinner = term.IsTerminal(int(os.Stdout.Fd()))

	return NewLoop(m, linerReader{line}, os.Stdout, os.Stderr, opts).Run(ctx)
}

type linerReader struct {
	state *liner.State
}

func (r linerReader) Prompt(prompt string) (string, error) {
	input, err := r.state.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		r.state.AppendHistory(input)
	}
	return input, nil
}

// Run reads and handles lines until the user quits or input ends.
func (l *Loop) Run(ctx context.Context) error {
	l.printWelcome()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		input, err := l.in.Prompt(promptText)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(l.out, "\n"+sessionEndedText)
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if l.Handle(ctx, input) {
			return nil
		}
	}
}

// Handle processes one line and reports whether the session should end.
func (l *Loop) Handle(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)

	if strings.EqualFold(input, "quit") || strings.EqualFold(input, "q") {
		fmt.Fprintln(l.out, "\nGoodbye!")
		return true
	}

	if input == "" {
		return false
	}

	if strings.HasPrefix(input, "/") {
		l.handleCommand(input)
	} else {
		l.handleChat(ctx, input)
	}

	fmt.Fprintln(l.out, "\n"+separator)
	return false
}

func (l *Loop) handleCommand(input string) {
	fields := strings.Fields(strings.TrimPrefix(input, "/"))
	if len(fields) == 0 {
		fmt.Fprintln(l.out, "\n"+unknownCmdText)
		return
	}
	command, args := strings.ToLower(fields[0]), fields[1:]

	switch command {
	case "list":
		l.printModels()

	case "switch":
		if len(args) == 0 {
			fmt.Fprintln(l.out, "\nPlease specify a model name")
			return
		}
		if err := l.session.SwitchModel(args[0]); err != nil {
			l.printError(err)
			return
		}
		fmt.Fprintln(l.out, "\n"+successStyle.Render("Switched to model: "+args[0]))

	case "history":
		l.printHistory()

	case "clear":
		if err := l.session.ClearCurrentContext(); err != nil {
			l.printError(err)
			return
		}
		fmt.Fprintln(l.out, "\n"+successStyle.Render("Cleared conversation history for "+l.session.Current()))

	case "copy":
		if l.lastReply == "" {
			fmt.Fprintln(l.out, "\nNothing to copy yet.")
			return
		}
		if err := l.opts.Copy(l.lastReply); err != nil {
			l.printError(err)
			return
		}
		fmt.Fprintln(l.out, "\n"+successStyle.Render("Copied last response to clipboard"))

	case "help":
		l.printHelp()

	default:
		fmt.Fprintln(l.out, "\n"+unknownCmdText)
	}
}

func (l *Loop) handleChat(ctx context.Context, input string) {
	turnCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if l.opts.RequestTimeout > 0 {
		var cancel context.CancelFunc
		turnCtx, cancel = context.WithTimeout(turnCtx, l.opts.RequestTimeout)
		defer cancel()
	}

	var (
		reply provider.Message
		err   error
	)
	send := func() { reply, err = l.session.Send(turnCtx, input) }

	if l.opts.Spinner {
		if spinErr := withSpinner(l.out, processingText, send); spinErr != nil {
			l.logger.Debug("spinner failed", zap.Error(spinErr))
		}
	} else {
		fmt.Fprintln(l.out, "\n"+infoStyle.Render(processingText))
		send()
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("request timed out after %s: %w", l.opts.RequestTimeout, err)
		} else if errors.Is(err, context.Canceled) {
			err = fmt.Errorf("request cancelled: %w", err)
		}
		l.printError(err)
		return
	}

	content := strings.TrimSpace(reply.Content)
	if content == "" {
		fmt.Fprintln(l.out, "\n"+aiLabelStyle.Render("AI:")+" "+noResponseText)
		return
	}

	l.lastReply = content
	fmt.Fprintln(l.out, "\n"+aiLabelStyle.Render("AI:")+" "+content)
}

func (l *Loop) printError(err error) {
	fmt.Fprintln(l.errOut, "\n"+errorStyle.Render("Error:")+" "+err.Error())
}

func (l *Loop) printWelcome() {
	fmt.Fprintln(l.out, welcomeStyle.Render("Welcome to the CLI Chat!")+" "+
		infoStyle.Render("Current model: "+l.session.Current()))
	l.printHelp()
	fmt.Fprintln(l.out, separator)
}

func (l *Loop) printHelp() {
	fmt.Fprintln(l.out, "Available commands:")
	for _, c := range [][2]string{
		{"<message>", "chat with the current model"},
		{"/list", "list available models"},
		{"/switch <model-name>", "switch between available models"},
		{"/history", "show the current conversation"},
		{"/clear", "clear the current conversation"},
		{"/copy", "copy the last response to the clipboard"},
		{"/help", "show this help"},
		{"quit, q", "exit"},
	} {
		fmt.Fprintf(l.out, "- %s %s\n", commandStyle.Render(c[0]), infoStyle.Render(c[1]))
	}
}

func (l *Loop) printModels() {
	fmt.Fprintln(l.out, "\nAvailable models:")
	for _, name := range l.session.ListAvailableModels() {
		line := "- " + name
		if cfg, ok := l.session.ProviderConfig(name); ok {
			line += infoStyle.Render(fmt.Sprintf(" (%s/%s)", cfg.Provider, cfg.Model))
		}
		if name == l.session.Current() {
			line += " " + successStyle.Render("[current]")
		}
		fmt.Fprintln(l.out, line)
	}
}

func (l *Loop) printHistory() {
	history, err := l.session.CurrentContext()
	if err != nil {
		l.printError(err)
		return
	}

	messages := history.Messages()
	fmt.Fprintf(l.out, "\nHistory for %s (%d/%d turns):\n", l.session.Current(), history.Len(), history.MaxTurns())
	if len(messages) == 0 {
		fmt.Fprintln(l.out, infoStyle.Render("No messages yet."))
		return
	}
	for _, msg := range messages {
		fmt.Fprintln(l.out, roleLabel(msg.Role)+" "+msg.Content)
	}
}

func roleLabel(role provider.Role) string {
	switch role {
	case provider.RoleHuman:
		return humanLabelStyle.Render("You:")
	case provider.RoleAI:
		return aiLabelStyle.Render("AI:")
	default:
		return systemLabelStyle.Render("System:")
	}
}
