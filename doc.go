/*
Package quizflow is a conversation routing engine for multi-turn quiz
sessions.

The Engine wires three collaborators: the routing engine that decides
which processing step runs next, the step implementations (intent
analysis, topic validation, question generation, answer grading,
scoring, clarification, completion), and a session manager that
persists state between turns.

A minimal embedding:

	model, _ := openai.New(apiKey)
	engine, _ := quizflow.New(model)

	turn, _ := engine.Turn(ctx, sessionID, "quiz me on jazz history")
	fmt.Println(turn.Response)

Each Turn runs the analyze/route/dispatch loop until the conversation
reaches a point that needs user input again (a question presented, a
clarification asked, a summary shown) or the session ends.
*/
package quizflow
