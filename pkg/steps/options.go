package steps

import (
	"log/slog"

	"github.com/quizflow/quizflow/internal/logging"
)

type options struct {
	logger *slog.Logger
}

// Option configures a step.
type Option func(*options)

// WithLogger sets the step's logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func applyOptions(opts []Option) options {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
