package quizflow_test

import (
	"context"
	"fmt"
	"strings"

	"github.com/quizflow/quizflow"
	"github.com/quizflow/quizflow/pkg/ports"
)

// A scripted model lets the example run without an API key; in real use
// you would pass an openai.Client here.
func ExampleEngine_Turn() {
	model := ports.ChatModelFunc(func(ctx context.Context, system, user string) (string, error) {
		switch {
		case strings.Contains(user, "intent classifier"):
			return `{"intent": "start_quiz", "confidence": 0.9}`, nil
		case strings.Contains(user, "Extract the quiz topic"):
			return `{"topic": "Astronomy", "confidence": 0.95}`, nil
		case strings.Contains(user, "Validate whether this topic"):
			return `{"is_valid": true, "confidence": 0.9}`, nil
		case strings.Contains(user, "Generate a quiz question"):
			return `{"question": "Which planet is known as the Red Planet?", "type": "open_ended", "correct_answer": "Mars"}`, nil
		default:
			return `{}`, nil
		}
	})

	engine, err := quizflow.New(model)
	if err != nil {
		fmt.Println(err)
		return
	}

	turn, err := engine.Turn(context.Background(), "example", "quiz me about space")
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(turn.Phase)
	fmt.Println(strings.Contains(turn.Response, "Red Planet"))
	// Output:
	// quiz_active
	// true
}
