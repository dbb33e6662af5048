package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRouteDecided EventType = "route_decided"
	EventStepStart    EventType = "step_start"
	EventStepEnd      EventType = "step_end"
)

// RouteEvent is emitted for every routing decision.
type RouteEvent struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	FromPhase Phase     `json:"from_phase"`
	Intent    Intent    `json:"intent,omitempty"`
	Target    Target    `json:"target"`
}

// StepEvent is emitted around every processing step dispatch, with
// Type distinguishing the start from the end of the dispatch.
type StepEvent struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Step      Target    `json:"step"`
	Result    *Result   `json:"result,omitempty"` // nil on step_start
}

// LifecycleHooks defines callbacks for engine observability.
// All hooks are optional and must not mutate the state they observe.
type LifecycleHooks struct {
	OnRouteDecided func(context.Context, *RouteEvent)
	OnStepStart    func(context.Context, *StepEvent)
	OnStepEnd      func(context.Context, *StepEvent)
}
