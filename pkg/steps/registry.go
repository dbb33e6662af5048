package steps

import (
	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/quizflow/quizflow/pkg/ports"
)

// All builds the full step set keyed by routing target, sharing one
// chat model and option set.
func All(model ports.ChatModel, opts ...Option) map[domain.Target]ports.Step {
	set := []ports.Step{
		NewQueryAnalyzer(model, opts...),
		NewTopicValidator(model, opts...),
		NewQuizGenerator(model, opts...),
		NewAnswerValidator(model, opts...),
		NewScoreGenerator(opts...),
		NewClarificationHandler(model, opts...),
		NewQuizCompletionHandler(model, opts...),
		NewSessionManager(opts...),
	}

	byTarget := make(map[domain.Target]ports.Step, len(set))
	for _, step := range set {
		byTarget[step.Name()] = step
	}
	return byTarget
}
