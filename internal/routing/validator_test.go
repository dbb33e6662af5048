package routing

import (
	"testing"

	"github.com/quizflow/quizflow/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidate_RejectsUngradeScoring(t *testing.T) {
	recorder := NewSnapshotRecorder()
	router := NewRouter(WithRecorder(recorder))

	state := domain.NewState("s")
	state.Phase = domain.PhaseQuestionAnswered
	// AnswerIsCorrect deliberately unset.

	target := router.validate(state, domain.TargetScoreGenerator)

	assert.Equal(t, domain.TargetQueryAnalyzer, target)
	stats := recorder.Snapshot()
	assert.Equal(t, uint64(1), stats.Rejections["question_answered->score_generator"])
}

func TestValidate_RejectsIllegalTransition(t *testing.T) {
	router := NewRouter()

	state := domain.NewState("s") // topic_selection
	target := router.validate(state, domain.TargetScoreGenerator)

	assert.Equal(t, domain.TargetQueryAnalyzer, target)
}

func TestValidate_RejectsGenerationWithoutValidatedTopic(t *testing.T) {
	router := NewRouter()

	state := domain.NewState("s")
	state.Phase = domain.PhaseTopicValidation
	state.Topic = "Go"
	state.TopicValidated = false

	assert.Equal(t, domain.TargetQueryAnalyzer, router.validate(state, domain.TargetQuizGenerator))

	state.TopicValidated = true
	assert.Equal(t, domain.TargetQuizGenerator, router.validate(state, domain.TargetQuizGenerator))
}

func TestValidate_UnknownPhaseRejectsEverything(t *testing.T) {
	router := NewRouter()

	state := domain.NewState("s")
	state.Phase = domain.Phase("corrupted")

	assert.Equal(t, domain.TargetQueryAnalyzer, router.validate(state, domain.TargetEnd))
}

func TestLegalTargets(t *testing.T) {
	targets := LegalTargets(domain.PhaseTopicSelection)
	assert.Contains(t, targets, domain.TargetTopicValidator)
	assert.Contains(t, targets, domain.TargetClarificationHandler)
	assert.Contains(t, targets, domain.TargetEnd)
	assert.NotContains(t, targets, domain.TargetScoreGenerator)

	assert.Nil(t, LegalTargets(domain.Phase("corrupted")))
}
