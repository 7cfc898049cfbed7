// Package shared holds the event plumbing used by the aggregates
package shared

import "time"

// DomainEvent is a fact raised by an aggregate. Names are dotted, for
// example "mealplan.generated".
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// EventHandler reacts to one dispatched event
type EventHandler func(event DomainEvent) error

// EventDispatcher routes events to the handlers registered for their name
type EventDispatcher interface {
	Register(eventName string, handler EventHandler)
	Dispatch(event DomainEvent) error
}

// EventRecorder is embedded by aggregates to buffer events until the
// application layer publishes them. Copies of an aggregate start empty.
type EventRecorder struct {
	pending []DomainEvent
}

// Record buffers an event
func (r *EventRecorder) Record(event DomainEvent) {
	r.pending = append(r.pending, event)
}

// DrainEvents returns the buffered events in the order they were raised
// and empties the buffer
func (r *EventRecorder) DrainEvents() []DomainEvent {
	out := r.pending
	r.pending = nil
	return out
}

// PendingEvents reports how many events are waiting to be drained
func (r *EventRecorder) PendingEvents() int {
	return len(r.pending)
}
