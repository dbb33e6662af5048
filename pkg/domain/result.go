package domain

import "fmt"

// Result is the outcome a processing step reports back to the router.
// Steps never panic and never retry themselves; they return a Result
// and leave classification and retry bookkeeping to the routing engine.
type Result struct {
	OK  bool   `json:"ok"`
	Err string `json:"err,omitempty"`
}

// Ok returns a successful Result.
func Ok() Result {
	return Result{OK: true}
}

// Failed returns a failed Result carrying the raw diagnostic text.
func Failed(err string) Result {
	return Result{Err: err}
}

// Failedf returns a failed Result with a formatted diagnostic.
func Failedf(format string, args ...any) Result {
	return Result{Err: fmt.Sprintf(format, args...)}
}
