package domain

// Phase is the macro-state of a conversation session.
type Phase string

const (
	PhaseTopicSelection   Phase = "topic_selection"
	PhaseTopicValidation  Phase = "topic_validation"
	PhaseQuizActive       Phase = "quiz_active"
	PhaseQuestionAnswered Phase = "question_answered"
	PhaseQuizComplete     Phase = "quiz_complete"
)

// Valid reports whether p is one of the known phases.
func (p Phase) Valid() bool {
	switch p {
	case PhaseTopicSelection, PhaseTopicValidation, PhaseQuizActive,
		PhaseQuestionAnswered, PhaseQuizComplete:
		return true
	}
	return false
}

func (p Phase) String() string {
	return string(p)
}
