// Package runner implements the interactive terminal loop for the quiz
// engine: it reads user lines, feeds them to the engine one turn at a
// time, and prints the engine's replies, optionally rendered as styled
// markdown when attached to a terminal.
package runner
