// Package pubsub provides a small generic publish/subscribe broker used to
// notify renderers about catalogue state changes.
package pubsub

import (
	"context"
	"time"
)

// EventType names the kind of change an event reports.
type EventType string

const (
	CreatedEvent EventType = "created"
	UpdatedEvent EventType = "updated"
	DeletedEvent EventType = "deleted"

	// LoadedEvent reports that the whole state was replaced, e.g. after a reload.
	LoadedEvent EventType = "loaded"
)

// Event is a published change with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber hands out subscription channels.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher accepts events.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
