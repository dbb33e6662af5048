/*
Package steps implements the processing steps the routing engine
dispatches between: intent analysis, topic validation, question
generation, answer grading, scoring, and the clarification, completion
and session-reset handlers.

Steps follow the ports.Step contract: mutate the session state, report
domain.Ok or domain.Failed, and leave retries to the router. A Failed
result carries the raw diagnostic the error classifier consumes; a
business rejection (invalid topic, wrong answer) is an Ok result with
the rejection written into the state.
*/
package steps
