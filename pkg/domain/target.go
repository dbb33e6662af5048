package domain

// Target identifies the next processing step the caller should invoke.
// It is the routing engine's only output: a closed set of step names
// plus the terminal TargetEnd.
type Target string

const (
	TargetQueryAnalyzer         Target = "query_analyzer"
	TargetTopicValidator        Target = "topic_validator"
	TargetQuizGenerator         Target = "quiz_generator"
	TargetAnswerValidator       Target = "answer_validator"
	TargetScoreGenerator        Target = "score_generator"
	TargetClarificationHandler  Target = "clarification_handler"
	TargetQuizCompletionHandler Target = "quiz_completion_handler"
	TargetSessionManager        Target = "session_manager"
	TargetEnd                   Target = "end"
)

func (t Target) String() string {
	return string(t)
}

// Terminal reports whether the target ends the session.
func (t Target) Terminal() bool {
	return t == TargetEnd
}
