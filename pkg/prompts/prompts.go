package prompts

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/quizflow/quizflow/pkg/domain"
)

// SystemPrompt is the shared system message for all quiz LLM calls.
const SystemPrompt = "You are the reasoning engine of an interactive quiz application. " +
	"Follow the instructions exactly and respond only in the requested format."

const intentClassificationTmpl = `You are an intent classifier for an interactive quiz application. Analyze the user's input and determine their intent based on the current context.

CURRENT CONTEXT:
- Current Phase: {{.Phase}}
- Quiz Active: {{.QuizActive}}
- Current Topic: {{.Topic}}
- Recent Conversation: {{.History}}

USER INPUT: "{{.UserInput}}"

POSSIBLE INTENTS:
1. start_quiz - User wants to begin a new quiz on a topic
2. answer_question - User is responding to a quiz question
3. new_quiz - User wants to start over with a different topic
4. exit - User wants to end the session
5. continue - User wants to proceed to the next question
6. clarification - User needs help or has questions

CLASSIFICATION RULES:
- If quiz is active and user provides a direct answer, classify as "answer_question"
- Keywords like "new quiz", "different topic", "start over" indicate "new_quiz"
- Keywords like "exit", "quit", "bye", "done" indicate "exit"
- Keywords like "next", "continue", "more" indicate "continue"
- If input seems unclear or off-topic, classify as "clarification"

Respond with JSON:
{
    "intent": "one_of_the_intents_above",
    "confidence": 0.0,
    "reasoning": "brief explanation of your classification"
}`

const topicExtractionTmpl = `Extract the quiz topic from the user's input. Clean and standardize the topic name.

USER INPUT: "{{.UserInput}}"

EXTRACTION GUIDELINES:
- Identify the main subject the user wants to be quizzed on
- Make the topic specific but not overly narrow
- Clean up grammar and formatting
- Handle multiple topics by selecting the primary one
- If no clear topic, return an empty string

Respond with JSON:
{
    "topic": "extracted_topic_or_empty",
    "confidence": 0.0
}`

const topicValidationTmpl = `Validate whether this topic is suitable for quiz generation.

TOPIC TO VALIDATE: "{{.Topic}}"

VALIDATION CRITERIA:
1. APPROPRIATENESS: Educational, safe, non-controversial content
2. SPECIFICITY: Not too broad ("everything") or too narrow ("my pet's name")
3. FEASIBILITY: Sufficient factual content exists for question generation
4. SAFETY: No harmful, offensive, or inappropriate material

CATEGORY GUIDELINES:
- Academic subjects: Usually valid (Science, History, Literature, etc.)
- Professional skills: Usually valid (Programming, Business, etc.)
- Hobbies/Interests: Valid if educational (Photography, Cooking, etc.)
- Personal/Private: Usually invalid (Personal relationships, private data)
- Controversial: Use caution (Politics, Religion - focus on facts only)

Respond with JSON:
{
    "is_valid": true,
    "confidence": 0.0,
    "difficulty_level": "beginner|intermediate|advanced",
    "reason": "explanation_if_invalid",
    "suggestions": ["alternative", "topics", "if", "invalid"]
}`

const questionGenerationTmpl = `Generate a quiz question for the given topic and context.

QUIZ CONTEXT:
- Topic: {{.Topic}}
- Question Number: {{.QuestionNumber}}
- Difficulty Level: {{.Difficulty}}
- Previous Questions: {{.PreviousQuestions}}
- Question Type: {{.QuestionType}}

QUESTION REQUIREMENTS:
1. Create an educational, factual question about the topic
2. Match the specified difficulty level
3. Avoid repeating previous questions or very similar concepts
4. Make the question clear and unambiguous
5. Ensure there is a definitive correct answer

QUESTION TYPE SPECIFICATIONS:

MULTIPLE_CHOICE:
- Provide exactly 4 options (A, B, C, D)
- Only one correct answer
- Make distractors plausible but clearly incorrect

OPEN_ENDED:
- Ask for explanation, description, or analysis
- Allow for multiple correct phrasings

TRUE_FALSE:
- Create a clear statement that is definitively true or false

FILL_IN_BLANK:
- Create a sentence with one key term missing
- Ensure only one logical answer fits

Respond with JSON:
{
    "question": "the_question_text",
    "type": "multiple_choice|open_ended|true_false|fill_in_blank",
    "correct_answer": "the_correct_answer",
    "options": ["A", "B", "C", "D"],
    "explanation": "why_this_is_the_correct_answer"
}`

const answerValidationTmpl = `Evaluate the user's answer to a quiz question.

QUESTION: "{{.Question}}"
CORRECT ANSWER: "{{.CorrectAnswer}}"
USER ANSWER: "{{.UserAnswer}}"
QUESTION TYPE: {{.QuestionType}}

EVALUATION CRITERIA:
1. ACCURACY: Does the answer contain the correct information?
2. COMPLETENESS: Does it address the key points?
3. UNDERSTANDING: Does it demonstrate comprehension of the concept?

For multiple choice questions, use exact matching.
For open-ended questions, be generous with partial credit for answers that show understanding even if not perfectly worded.

Respond with JSON:
{
    "is_correct": true,
    "score_percentage": 0,
    "feedback": "encouraging_feedback_with_explanation"
}`

const clarificationTmpl = `Generate a helpful clarification response for unclear user input.

CONTEXT:
- Current Phase: {{.Phase}}
- Current Question: {{.Question}}
- User Input: "{{.UserInput}}"
- Issue Type: {{.IssueType}}

The response should be friendly and encouraging, specific and
actionable, include examples where helpful, and offer multiple options
when appropriate.

Generate a helpful clarification message (plain text, no JSON needed).`

const summaryTmpl = `Generate an engaging completion summary for the quiz.

QUIZ DATA:
- Topic: {{.Topic}}
- Total Questions: {{.TotalQuestions}}
- Correct Answers: {{.CorrectAnswers}}
- Final Score: {{.FinalScore}}
- Accuracy: {{.Accuracy}}%

SUMMARY REQUIREMENTS:
1. Congratulatory and encouraging tone
2. Highlight achievements and progress
3. Provide specific feedback on performance
4. Suggest next steps or related topics
5. Keep it concise but comprehensive

Generate an encouraging completion message (plain text).`

var (
	intentClassification = template.Must(template.New("intent_classification").Parse(intentClassificationTmpl))
	topicExtraction      = template.Must(template.New("topic_extraction").Parse(topicExtractionTmpl))
	topicValidation      = template.Must(template.New("topic_validation").Parse(topicValidationTmpl))
	questionGeneration   = template.Must(template.New("question_generation").Parse(questionGenerationTmpl))
	answerValidation     = template.Must(template.New("answer_validation").Parse(answerValidationTmpl))
	clarification        = template.Must(template.New("clarification").Parse(clarificationTmpl))
	summary              = template.Must(template.New("summary").Parse(summaryTmpl))
)

func render(t *template.Template, data any) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", t.Name(), err)
	}
	return sb.String(), nil
}

// IntentClassification renders the intent classification prompt from
// the session state.
func IntentClassification(state *domain.State) (string, error) {
	topic := state.Topic
	if topic == "" {
		topic = "None"
	}
	return render(intentClassification, map[string]any{
		"Phase":      state.Phase,
		"QuizActive": state.QuizActive,
		"Topic":      topic,
		"History":    FormatHistory(state.History, 3),
		"UserInput":  state.UserInput,
	})
}

// TopicExtraction renders the topic extraction prompt.
func TopicExtraction(userInput string) (string, error) {
	return render(topicExtraction, map[string]any{"UserInput": userInput})
}

// TopicValidation renders the topic validation prompt.
func TopicValidation(topic string) (string, error) {
	return render(topicValidation, map[string]any{"Topic": topic})
}

// QuestionGeneration renders the question generation prompt from the
// session state for the requested question type.
func QuestionGeneration(state *domain.State, questionType domain.QuestionType) (string, error) {
	previous := make([]string, 0, len(state.Answers))
	for _, rec := range state.Answers {
		previous = append(previous, rec.Question)
	}

	difficulty := "medium"
	if v, ok := state.Metadata[domain.MetaDifficulty].(string); ok && v != "" {
		difficulty = v
	}

	return render(questionGeneration, map[string]any{
		"Topic":             state.Topic,
		"QuestionNumber":    state.QuestionIndex + 1,
		"Difficulty":        difficulty,
		"PreviousQuestions": FormatPreviousQuestions(previous, 5),
		"QuestionType":      questionType,
	})
}

// AnswerValidation renders the grading prompt from the session state.
func AnswerValidation(state *domain.State) (string, error) {
	questionType := state.QuestionType
	if questionType == "" {
		questionType = domain.QuestionOpenEnded
	}
	return render(answerValidation, map[string]any{
		"Question":      state.CurrentQuestion,
		"CorrectAnswer": state.CorrectAnswer,
		"UserAnswer":    state.UserAnswer,
		"QuestionType":  questionType,
	})
}

// Clarification renders the clarification prompt for the given issue.
func Clarification(state *domain.State, issueType string) (string, error) {
	question := state.CurrentQuestion
	if question == "" {
		question = "No current question"
	}
	return render(clarification, map[string]any{
		"Phase":     state.Phase,
		"Question":  question,
		"UserInput": state.UserInput,
		"IssueType": issueType,
	})
}

// Summary renders the quiz completion summary prompt.
func Summary(state *domain.State) (string, error) {
	return render(summary, map[string]any{
		"Topic":          state.Topic,
		"TotalQuestions": state.TotalAnswered,
		"CorrectAnswers": state.CorrectCount,
		"FinalScore":     state.TotalScore,
		"Accuracy":       fmt.Sprintf("%.1f", state.Accuracy()),
	})
}

// FormatHistory renders the most recent conversation entries as
// alternating User/System lines.
func FormatHistory(history []domain.ConversationEntry, maxEntries int) string {
	if len(history) == 0 {
		return "No previous conversation"
	}
	if len(history) > maxEntries {
		history = history[len(history)-maxEntries:]
	}

	var lines []string
	for _, entry := range history {
		if entry.User != "" {
			lines = append(lines, "User: "+entry.User)
		}
		if entry.System != "" {
			lines = append(lines, "System: "+entry.System)
		}
	}
	if len(lines) == 0 {
		return "No previous conversation"
	}
	return strings.Join(lines, "\n")
}

// FormatPreviousQuestions renders a numbered list of recent questions.
func FormatPreviousQuestions(questions []string, maxQuestions int) string {
	if len(questions) == 0 {
		return "No previous questions"
	}
	if len(questions) > maxQuestions {
		questions = questions[len(questions)-maxQuestions:]
	}

	var sb strings.Builder
	for i, q := range questions {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d. %s", i+1, q)
	}
	return sb.String()
}
