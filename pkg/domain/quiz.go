package domain

import "time"

// QuizType controls how the quiz ends.
type QuizType string

const (
	// QuizFinite ends after MaxQuestions questions.
	QuizFinite QuizType = "finite"
	// QuizInfinite continues until the user exits.
	QuizInfinite QuizType = "infinite"
)

// QuestionType is the format of the current question.
type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionOpenEnded      QuestionType = "open_ended"
	QuestionTrueFalse      QuestionType = "true_false"
	QuestionFillInBlank    QuestionType = "fill_in_blank"
)

// AnswerRecord is one completed question/answer exchange.
type AnswerRecord struct {
	QuestionIndex int          `json:"question_index"`
	Question      string       `json:"question"`
	QuestionType  QuestionType `json:"question_type,omitempty"`
	UserAnswer    string       `json:"user_answer"`
	CorrectAnswer string       `json:"correct_answer"`
	IsCorrect     bool         `json:"is_correct"`
	Feedback      string       `json:"feedback,omitempty"`
	Timestamp     time.Time    `json:"timestamp"`
}

// ConversationEntry is one user/system exchange in the session log.
type ConversationEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	User          string    `json:"user"`
	System        string    `json:"system,omitempty"`
	Phase         Phase     `json:"phase"`
	QuestionIndex int       `json:"question_index"`
}

// Summary aggregates session performance for the completion handler.
type Summary struct {
	Topic          string                  `json:"topic"`
	TotalQuestions int                     `json:"total_questions"`
	CorrectAnswers int                     `json:"correct_answers"`
	Accuracy       float64                 `json:"accuracy"`
	TotalScore     int                     `json:"total_score"`
	ByQuestionType map[QuestionType][2]int `json:"by_question_type,omitempty"` // [correct, total]
	Duration       time.Duration           `json:"duration"`
}
