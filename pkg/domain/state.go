package domain

import (
	"fmt"
	"strings"
	"time"
)

// DefaultMaxQuestions is the question count for finite quizzes when the
// user does not ask for a specific length.
const DefaultMaxQuestions = 10

// State represents the current snapshot of a quiz conversation.
//
// One instance exists per session, owned exclusively by the orchestrating
// caller. It is mutated only by processing steps and by the router (intent
// override, retry increment, phase write). The router never mutates state
// belonging to another session, and the caller serializes turns, so no
// internal locking is needed here.
type State struct {
	// SessionID survives ResetForNewQuiz; everything quiz-scoped does not.
	SessionID string `json:"session_id"`

	// UserInput is the raw text of the latest user message.
	UserInput string `json:"user_input,omitempty"`

	// Intent is set by the query analyzer step and consumed once per
	// routing decision. Phase routers may override it (disambiguation).
	Intent Intent `json:"user_intent,omitempty"`

	// Phase changes only via a routing decision or explicit reset.
	Phase Phase `json:"current_phase"`

	// Quiz configuration.
	Topic          string   `json:"topic,omitempty"`
	TopicValidated bool     `json:"topic_validated"`
	QuizType       QuizType `json:"quiz_type"`
	MaxQuestions   int      `json:"max_questions,omitempty"` // required when QuizType == QuizFinite

	// Current question.
	QuestionIndex   int          `json:"current_question_index"`
	CurrentQuestion string       `json:"current_question,omitempty"`
	QuestionType    QuestionType `json:"question_type,omitempty"`
	QuestionOptions []string     `json:"question_options,omitempty"`
	CorrectAnswer   string       `json:"correct_answer,omitempty"`

	// Latest answer. AnswerIsCorrect is nil until the answer validator
	// has graded the current answer.
	UserAnswer      string         `json:"current_answer,omitempty"`
	AnswerIsCorrect *bool          `json:"answer_is_correct,omitempty"`
	AnswerFeedback  string         `json:"answer_feedback,omitempty"`
	Answers         []AnswerRecord `json:"user_answers,omitempty"`

	// Scoring.
	TotalScore    int `json:"total_score"`
	TotalAnswered int `json:"total_questions_answered"`
	CorrectCount  int `json:"correct_answers_count"`

	// Session flags.
	QuizActive    bool `json:"quiz_active"`
	QuizCompleted bool `json:"quiz_completed"`

	// Error bookkeeping. LastError holds the raw diagnostic from the last
	// failed step; it is consumed and cleared by the error classifier.
	// RetryCount resets on successful phase advance; TotalRetries never
	// resets and backs the session-wide circuit breaker.
	LastError    string `json:"last_error,omitempty"`
	RetryCount   int    `json:"retry_count"`
	TotalRetries int    `json:"total_retries"`

	// History survives ResetForNewQuiz.
	History []ConversationEntry `json:"conversation_history,omitempty"`

	// Metadata is an open mapping steps and routers use to stash context
	// for downstream steps (suggested topics, fallback flags). The router
	// interprets only the documented keys in metadata.go.
	Metadata map[string]any `json:"quiz_metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewState creates a clean session state in the topic selection phase.
func NewState(sessionID string) *State {
	now := time.Now()
	return &State{
		SessionID:    sessionID,
		Phase:        PhaseTopicSelection,
		QuizType:     QuizFinite,
		MaxQuestions: DefaultMaxQuestions,
		Metadata:     make(map[string]any),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Touch updates the last-modified timestamp.
func (s *State) Touch() {
	s.UpdatedAt = time.Now()
}

// HasPendingQuestion reports whether a question is awaiting an answer.
func (s *State) HasPendingQuestion() bool {
	return s.CurrentQuestion != "" && s.AnswerIsCorrect == nil
}

// HasInput reports whether the latest user message is non-empty.
func (s *State) HasInput() bool {
	return strings.TrimSpace(s.UserInput) != ""
}

// AddConversationEntry appends one exchange to the session log.
func (s *State) AddConversationEntry(userInput, systemResponse string) {
	s.History = append(s.History, ConversationEntry{
		Timestamp:     time.Now(),
		User:          userInput,
		System:        systemResponse,
		Phase:         s.Phase,
		QuestionIndex: s.QuestionIndex,
	})
	s.Touch()
}

// AddAnswerRecord appends the graded answer to the history and updates
// the running counters.
func (s *State) AddAnswerRecord(isCorrect bool, feedback string) {
	s.Answers = append(s.Answers, AnswerRecord{
		QuestionIndex: s.QuestionIndex,
		Question:      s.CurrentQuestion,
		QuestionType:  s.QuestionType,
		UserAnswer:    s.UserAnswer,
		CorrectAnswer: s.CorrectAnswer,
		IsCorrect:     isCorrect,
		Feedback:      feedback,
		Timestamp:     time.Now(),
	})
	s.TotalAnswered++
	if isCorrect {
		s.CorrectCount++
		s.TotalScore++
	}
	s.Touch()
}

// IncrementQuestion advances to the next question, clearing all
// per-question fields.
func (s *State) IncrementQuestion() {
	s.QuestionIndex++
	s.CurrentQuestion = ""
	s.QuestionType = ""
	s.QuestionOptions = nil
	s.CorrectAnswer = ""
	s.UserAnswer = ""
	s.AnswerIsCorrect = nil
	s.AnswerFeedback = ""
	s.Touch()
}

// ResetForNewQuiz zeroes all quiz-progress fields, preserving only the
// session identifier and the conversation log.
func (s *State) ResetForNewQuiz() {
	s.Intent = IntentNone
	s.Phase = PhaseTopicSelection
	s.Topic = ""
	s.TopicValidated = false
	s.QuizType = QuizFinite
	s.MaxQuestions = DefaultMaxQuestions
	s.QuestionIndex = 0
	s.CurrentQuestion = ""
	s.QuestionType = ""
	s.QuestionOptions = nil
	s.CorrectAnswer = ""
	s.UserAnswer = ""
	s.AnswerIsCorrect = nil
	s.AnswerFeedback = ""
	s.Answers = nil
	s.TotalScore = 0
	s.TotalAnswered = 0
	s.CorrectCount = 0
	s.QuizActive = false
	s.QuizCompleted = false
	s.LastError = ""
	s.RetryCount = 0
	s.TotalRetries = 0
	s.Metadata = make(map[string]any)
	s.Touch()
}

// Accuracy returns the percentage of correct answers so far.
func (s *State) Accuracy() float64 {
	if s.TotalAnswered == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.TotalAnswered) * 100
}

// Summary aggregates performance statistics for the completion handler.
func (s *State) Summary() Summary {
	byType := make(map[QuestionType][2]int)
	for _, a := range s.Answers {
		counts := byType[a.QuestionType]
		counts[1]++
		if a.IsCorrect {
			counts[0]++
		}
		byType[a.QuestionType] = counts
	}
	return Summary{
		Topic:          s.Topic,
		TotalQuestions: s.TotalAnswered,
		CorrectAnswers: s.CorrectCount,
		Accuracy:       s.Accuracy(),
		TotalScore:     s.TotalScore,
		ByQuestionType: byType,
		Duration:       s.UpdatedAt.Sub(s.CreatedAt),
	}
}

// Validate checks the structural invariants of the snapshot.
func (s *State) Validate() error {
	if s.CorrectCount > s.TotalAnswered {
		return fmt.Errorf("%w: correct count %d exceeds total answered %d",
			ErrInvalidState, s.CorrectCount, s.TotalAnswered)
	}
	if s.Phase == PhaseQuizActive && !s.TopicValidated {
		return fmt.Errorf("%w: quiz active without a validated topic", ErrInvalidState)
	}
	if s.QuizType == QuizFinite && s.MaxQuestions <= 0 {
		return fmt.Errorf("%w: finite quiz requires max questions", ErrInvalidState)
	}
	if s.QuestionIndex < 0 {
		return fmt.Errorf("%w: negative question index", ErrInvalidState)
	}
	return nil
}

// Clone returns a deep copy safe for concurrent readers and store
// round-trips.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	if s.AnswerIsCorrect != nil {
		v := *s.AnswerIsCorrect
		next.AnswerIsCorrect = &v
	}
	next.QuestionOptions = append([]string(nil), s.QuestionOptions...)
	next.Answers = append([]AnswerRecord(nil), s.Answers...)
	next.History = append([]ConversationEntry(nil), s.History...)
	next.Metadata = make(map[string]any, len(s.Metadata))
	for k, v := range s.Metadata {
		next.Metadata[k] = v
	}
	return &next
}
