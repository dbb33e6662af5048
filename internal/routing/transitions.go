package routing

import "github.com/quizflow/quizflow/pkg/domain"

// targetSet is a set of legal routing targets.
type targetSet map[domain.Target]struct{}

func newTargetSet(targets ...domain.Target) targetSet {
	set := make(targetSet, len(targets))
	for _, t := range targets {
		set[t] = struct{}{}
	}
	return set
}

func (s targetSet) contains(t domain.Target) bool {
	_, ok := s[t]
	return ok
}

// transitionTable declares which routing targets are legal from each
// phase. QueryAnalyzer (the self-healing default), TopicValidator (the
// NewQuiz override) and End (the Exit override) are legal everywhere;
// the rest depends on where the conversation stands. The phase routers
// are expected, but not guaranteed, to respect this table: the
// validator is the enforcement point.
var transitionTable = map[domain.Phase]targetSet{
	domain.PhaseTopicSelection: newTargetSet(
		domain.TargetQueryAnalyzer,
		domain.TargetTopicValidator,
		domain.TargetClarificationHandler,
		domain.TargetEnd,
	),
	domain.PhaseTopicValidation: newTargetSet(
		domain.TargetQueryAnalyzer,
		domain.TargetTopicValidator,
		domain.TargetQuizGenerator,
		domain.TargetClarificationHandler,
		domain.TargetEnd,
	),
	domain.PhaseQuizActive: newTargetSet(
		domain.TargetQueryAnalyzer,
		domain.TargetTopicValidator,
		domain.TargetQuizGenerator,
		domain.TargetAnswerValidator,
		domain.TargetClarificationHandler,
		domain.TargetEnd,
	),
	domain.PhaseQuestionAnswered: newTargetSet(
		domain.TargetQueryAnalyzer,
		domain.TargetTopicValidator,
		domain.TargetQuizGenerator,
		domain.TargetScoreGenerator,
		domain.TargetQuizCompletionHandler,
		domain.TargetClarificationHandler,
		domain.TargetEnd,
	),
	domain.PhaseQuizComplete: newTargetSet(
		domain.TargetQueryAnalyzer,
		domain.TargetTopicValidator,
		domain.TargetSessionManager,
		domain.TargetClarificationHandler,
		domain.TargetEnd,
	),
}

// LegalTargets returns the transition table entry for a phase. Exposed
// for the validator and for introspection (CLI `graph` command).
func LegalTargets(phase domain.Phase) []domain.Target {
	set, ok := transitionTable[phase]
	if !ok {
		return nil
	}
	targets := make([]domain.Target, 0, len(set))
	for t := range set {
		targets = append(targets, t)
	}
	return targets
}
