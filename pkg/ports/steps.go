package ports

import (
	"context"

	"github.com/quizflow/quizflow/pkg/domain"
)

// Step is the contract every processing step implements: consume a
// slice of the session state, mutate it, and report Ok or Failed.
// Steps never retry themselves and never panic on expected failures;
// bounded retry is the router's business.
type Step interface {
	// Name returns the routing target this step serves.
	Name() domain.Target

	// Run executes the step against the state. A Failed result carries
	// the raw diagnostic the error classifier will consume.
	Run(ctx context.Context, state *domain.State) domain.Result
}

// StepFunc adapts a function to the Step interface.
type StepFunc struct {
	Target domain.Target
	Fn     func(ctx context.Context, state *domain.State) domain.Result
}

func (s StepFunc) Name() domain.Target {
	return s.Target
}

func (s StepFunc) Run(ctx context.Context, state *domain.State) domain.Result {
	return s.Fn(ctx, state)
}
