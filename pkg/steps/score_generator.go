package steps

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quizflow/quizflow/pkg/domain"
)

// ScoreGenerator records the graded answer, updates the running score,
// and detects quiz completion. It is fully deterministic; no model call
// is involved.
type ScoreGenerator struct {
	logger *slog.Logger
}

// NewScoreGenerator builds the scoring step.
func NewScoreGenerator(opts ...Option) *ScoreGenerator {
	o := applyOptions(opts)
	return &ScoreGenerator{logger: o.logger}
}

func (s *ScoreGenerator) Name() domain.Target {
	return domain.TargetScoreGenerator
}

func (s *ScoreGenerator) Run(ctx context.Context, state *domain.State) domain.Result {
	if state.AnswerIsCorrect == nil {
		return domain.Failed("scoring requires a graded answer")
	}

	feedback := state.AnswerFeedback
	state.AddAnswerRecord(*state.AnswerIsCorrect, feedback)

	if state.QuizType == domain.QuizFinite && state.TotalAnswered >= state.MaxQuestions {
		state.QuizCompleted = true
		s.logger.Info("quiz complete",
			"session_id", state.SessionID,
			"total_answered", state.TotalAnswered,
			"score", state.TotalScore,
		)
		return domain.Ok()
	}

	state.Phase = domain.PhaseQuizActive
	// The per-question fields (including AnswerFeedback) are cleared when
	// the question advances, so the turn's feedback rides in metadata.
	state.Metadata[domain.MetaLastFeedback] = fmt.Sprintf("%s (Score: %d/%d)",
		feedback, state.TotalScore, state.TotalAnswered)
	state.Touch()
	return domain.Ok()
}
