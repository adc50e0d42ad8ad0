// Package ddd contains the minimal building blocks aggregates share: a domain
// event contract and an embeddable event recorder.
package ddd

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent is a fact recorded by an aggregate. Events are collected while a
// command runs and dispatched only after the owning transaction commits.
type DomainEvent interface {
	EventID() uuid.UUID
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent carries the fields every event has. Embed it in concrete events.
type BaseEvent struct {
	id         uuid.UUID
	name       string
	occurredAt time.Time
}

// NewBaseEvent stamps a new event with a random id and the given time.
func NewBaseEvent(name string, occurredAt time.Time) BaseEvent {
	return BaseEvent{id: uuid.New(), name: name, occurredAt: occurredAt.UTC()}
}

func (e BaseEvent) EventID() uuid.UUID    { return e.id }
func (e BaseEvent) EventName() string     { return e.name }
func (e BaseEvent) OccurredAt() time.Time { return e.occurredAt }

// AggregateRoot records domain events raised by an aggregate.
// It is not safe for concurrent use, same as the aggregate embedding it.
type AggregateRoot struct {
	events []DomainEvent
}

// RaiseDomainEvent appends an event to the pending list.
func (a *AggregateRoot) RaiseDomainEvent(event DomainEvent) {
	a.events = append(a.events, event)
}

// DomainEvents returns a copy of the pending events.
func (a *AggregateRoot) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(a.events))
	copy(out, a.events)
	return out
}

// ClearDomainEvents drops pending events once they have been dispatched.
func (a *AggregateRoot) ClearDomainEvents() {
	a.events = nil
}

// EventSource is implemented by anything embedding AggregateRoot.
type EventSource interface {
	DomainEvents() []DomainEvent
	ClearDomainEvents()
}
