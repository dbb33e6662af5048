package domain

// Intent is the classified purpose of the user's latest input.
// It is written by the query analyzer step and consumed once per
// routing decision. The zero value means "not yet classified".
type Intent string

const (
	IntentNone           Intent = ""
	IntentStartQuiz      Intent = "start_quiz"
	IntentAnswerQuestion Intent = "answer_question"
	IntentNewQuiz        Intent = "new_quiz"
	IntentExit           Intent = "exit"
	IntentContinue       Intent = "continue"
	IntentClarification  Intent = "clarification"
	IntentUnknown        Intent = "unknown"
)

func (i Intent) String() string {
	return string(i)
}
