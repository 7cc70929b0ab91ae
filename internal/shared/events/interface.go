package events

import "context"

// EventBus defines the interface for event publishing
type EventBus interface {
	// Publish publishes an event to the bus
	Publish(ctx context.Context, event Event) error

	// Close closes the event bus connection
	Close()

	// Health checks the event bus connection
	Health() error
}

// Ensure Bus implements EventBus
var _ EventBus = (*Bus)(nil)
