/*
Package domain contains the core domain models for the quizflow engine.

It defines the fundamental entities of the conversation: the session State,
the Phase and Intent enumerations, the routing Target set, and the Result
type that processing steps report back to the router. This package is kept
pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - State: the single mutable record describing a conversation's progress.
  - Phase: the macro-state of the session (topic selection, active quiz, ...).
  - Intent: the classified purpose of the user's latest input.
  - Target: the identifier of the next processing step to invoke.
  - Result: the Ok/Failed outcome of an external processing step.
*/
package domain
