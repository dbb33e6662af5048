package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/quizflow/quizflow"
	"github.com/quizflow/quizflow/internal/logging"
	"github.com/quizflow/quizflow/pkg/session"
)

// Engine is the surface the loop needs from the quiz engine.
type Engine interface {
	Turn(ctx context.Context, sessionID, input string) (*quizflow.TurnResult, error)
}

// ContentRenderer transforms a reply before it is written, letting the
// caller plug in markdown-to-ANSI rendering without coupling this
// package to a terminal library.
type ContentRenderer func(string) (string, error)

// Runner drives a read-line / engine-turn / print loop over the given IO.
type Runner struct {
	input    io.Reader
	output   io.Writer
	renderer ContentRenderer
	logger   *slog.Logger
	banner   bool
}

// Option configures the Runner.
type Option func(*Runner)

// WithIO sets the input and output streams. Nil values keep the
// defaults (Stdin/Stdout).
func WithIO(r io.Reader, w io.Writer) Option {
	return func(run *Runner) {
		if r != nil {
			run.input = r
		}
		if w != nil {
			run.output = w
		}
	}
}

// WithRenderer sets the reply renderer.
func WithRenderer(renderer ContentRenderer) Option {
	return func(run *Runner) {
		run.renderer = renderer
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(run *Runner) {
		run.logger = logger
	}
}

// WithBanner enables the startup banner.
func WithBanner(enabled bool) Option {
	return func(run *Runner) {
		run.banner = enabled
	}
}

// NewRunner creates a Runner bound to Stdin/Stdout by default.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		input:  os.Stdin,
		output: os.Stdout,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the conversation loop until the session ends, the input
// stream is exhausted, or the context is canceled. An empty sessionID
// starts a fresh session.
func (r *Runner) Run(ctx context.Context, engine Engine, sessionID string) error {
	if sessionID == "" {
		sessionID = session.NewSessionID()
	}
	r.greet()

	reader := bufio.NewReader(r.input)
	for {
		if ctx.Err() != nil {
			fmt.Fprintln(r.output)
			return nil
		}

		fmt.Fprint(r.output, "> ")
		line, readErr := reader.ReadString('\n')
		text := strings.TrimSpace(line)

		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return fmt.Errorf("input error: %w", readErr)
		}
		atEOF := errors.Is(readErr, io.EOF)
		if text == "" {
			if atEOF {
				fmt.Fprintln(r.output, "\nGoodbye!")
				return nil
			}
			continue
		}

		clean, err := SanitizeInput(text)
		if err != nil {
			fmt.Fprintf(r.output, "Error: %v. Please try again.\n", err)
			if atEOF {
				return nil
			}
			continue
		}

		turn, err := engine.Turn(ctx, sessionID, clean)
		if err != nil {
			return fmt.Errorf("turn failed: %w", err)
		}
		r.logger.Debug("turn completed", "session_id", sessionID, "phase", turn.Phase, "ended", turn.Ended)

		r.print(turn.Response)

		if turn.Ended || atEOF {
			return nil
		}
	}
}

func (r *Runner) greet() {
	if r.banner {
		PrintBanner(r.output, quizflow.Version)
	}
	fmt.Fprintln(r.output, "Welcome to QuizFlow! Name a topic to start a quiz, or type 'exit' to leave.")
}

func (r *Runner) print(reply string) {
	if reply == "" {
		return
	}
	output := reply
	if r.renderer != nil {
		if rendered, err := r.renderer(reply); err == nil {
			output = rendered
		}
	}
	fmt.Fprintln(r.output, strings.TrimSpace(output))
}
