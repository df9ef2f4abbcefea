package infrastructure

import (
	"fortuneblock/domain/events"
)

// NoopEventPublisher is an event publisher that does nothing.
// The one-shot CLI commands use it.
type NoopEventPublisher struct{}

// NewNoopEventPublisher creates a new no-op event publisher
func NewNoopEventPublisher() *NoopEventPublisher {
	return &NoopEventPublisher{}
}

// Publish does nothing with the event
func (n *NoopEventPublisher) Publish(event events.Event) error {
	return nil
}
