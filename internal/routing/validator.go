package routing

import "github.com/quizflow/quizflow/pkg/domain"

// prerequisites are per-target predicates that must hold before the
// caller may be handed that target. They convert a would-be downstream
// crash (a step invoked with its required inputs missing) into a cheap
// extra round-trip through the query analyzer.
var prerequisites = map[domain.Target]func(*domain.State) bool{
	domain.TargetQuizGenerator: func(s *domain.State) bool {
		return s.TopicValidated && s.Topic != ""
	},
	domain.TargetScoreGenerator: func(s *domain.State) bool {
		return s.AnswerIsCorrect != nil
	},
	domain.TargetAnswerValidator: func(s *domain.State) bool {
		return s.CurrentQuestion != ""
	},
}

// validate checks a proposed target against the transition table and
// the target's prerequisite predicate. On failure of either check it
// substitutes the QueryAnalyzer fallback and records the violation.
func (r *Router) validate(state *domain.State, proposed domain.Target) domain.Target {
	set, known := transitionTable[state.Phase]
	if !known || !set.contains(proposed) {
		r.logger.Warn("routing target not legal from phase",
			"phase", state.Phase, "target", proposed)
		r.recorder.RecordRejection(state.Phase, proposed)
		return domain.TargetQueryAnalyzer
	}

	if check, ok := prerequisites[proposed]; ok && !check(state) {
		r.logger.Warn("routing target prerequisites not met",
			"phase", state.Phase, "target", proposed)
		r.recorder.RecordRejection(state.Phase, proposed)
		return domain.TargetQueryAnalyzer
	}

	return proposed
}
