package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is an immutable typed event.
type Event[T any] struct {
	// Type is the topic the event is published on.
	Type Topic

	// Payload carries the event data.
	Payload T

	// Metadata is attached to every event.
	Metadata Metadata
}

// Metadata identifies one published event.
type Metadata struct {
	// ID is unique per event.
	ID uuid.UUID

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source names the publisher, e.g. "annotate/<annotator id>".
	Source string

	// CausationID is the ID of the event that led to this one, if any.
	CausationID uuid.UUID
}

// NewEvent creates an event with fresh metadata.
func NewEvent[T any](t Topic, payload T, source string) Event[T] {
	return Event[T]{
		Type:    t,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.New(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}

// WithCausation returns a copy of the event caused by another event.
func (e Event[T]) WithCausation(id uuid.UUID) Event[T] {
	e.Metadata.CausationID = id
	return e
}

// EventTopic implements TopicProvider.
func (e Event[T]) EventTopic() Topic {
	return e.Type
}

// EventMetadata implements MetadataProvider.
func (e Event[T]) EventMetadata() Metadata {
	return e.Metadata
}

// TopicProvider is implemented by every Event[T].
type TopicProvider interface {
	EventTopic() Topic
}

// MetadataProvider is implemented by every Event[T].
type MetadataProvider interface {
	EventMetadata() Metadata
}
