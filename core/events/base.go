package events

import "time"

// Kind names an event type, namespaced by its source (call, caller,
// operator).
type Kind string

// Event is implemented by everything the session controller emits.
type Event interface {
	Kind() Kind
	Timestamp() time.Time
}

// Base carries the kind and creation time shared by all events. Embed it and
// construct it with NewBase.
type Base struct {
	kind      Kind
	timestamp time.Time
}

// NewBase stamps a new event base with the current time.
func NewBase(kind Kind) Base {
	return Base{kind: kind, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

// Timestamp reports when the event was created, not when it was delivered.
func (b Base) Timestamp() time.Time {
	return b.timestamp
}
