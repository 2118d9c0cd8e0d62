package events

import "time"

// Kind identifies an event type, namespaced by origin ("command.stop",
// "engine.ready", "timer.restart_due").
type Kind string

// Event is anything the supervisor's queue accepts.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and arrival time shared by every event. Embed it and
// construct with NewBase; the timestamp is fixed at creation.
type Base struct {
	kind       Kind
	occurredAt time.Time
}

func NewBase(kind Kind) Base {
	return Base{kind: kind, occurredAt: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) Timestamp() time.Time {
	return b.occurredAt
}
