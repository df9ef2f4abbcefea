package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"fortuneblock/domain/events"
	"fortuneblock/infrastructure/observability"

	log "github.com/sirupsen/logrus"
)

// messageSubscriber is the part of NATSClient the event subscriber needs
type messageSubscriber interface {
	Subscribe(subject string, handler func([]byte) error) error
}

// NATSEventSubscriber subscribes to NATS subjects and deserializes events for application handlers
type NATSEventSubscriber struct {
	client        messageSubscriber
	subjectMapper *EventSubjectMapper
	mu            sync.RWMutex
	handlers      map[string][]func(context.Context, events.Event) error
}

// NewNATSEventSubscriber creates a new NATS event subscriber
func NewNATSEventSubscriber(client messageSubscriber, subjectMapper *EventSubjectMapper) *NATSEventSubscriber {
	return &NATSEventSubscriber{
		client:        client,
		subjectMapper: subjectMapper,
		handlers:      make(map[string][]func(context.Context, events.Event) error),
	}
}

// Subscribe registers a handler for a specific event type. The first handler
// for a subject opens the NATS subscription; later ones share it.
func (s *NATSEventSubscriber) Subscribe(eventType events.EventType, handler func(context.Context, events.Event) error) error {
	subject := s.subjectMapper.MapEventTypeToSubject(eventType)

	s.mu.Lock()
	first := len(s.handlers[subject]) == 0
	s.handlers[subject] = append(s.handlers[subject], handler)
	s.mu.Unlock()

	log.WithFields(log.Fields{
		"eventType": eventType,
		"subject":   subject,
	}).Info("Registering event handler for subject")

	if !first {
		return nil
	}
	return s.client.Subscribe(subject, func(data []byte) error {
		return s.handleMessage(subject, data)
	})
}

// handleMessage deserializes a NATS message and routes it to the handlers for its subject
func (s *NATSEventSubscriber) handleMessage(subject string, data []byte) error {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal event envelope: %w", err)
	}
	observability.GetMetrics().RecordNATSMessageReceived(envelope.EventType)

	event, err := envelope.DecodeEvent()
	if err != nil {
		log.WithFields(log.Fields{
			"subject":   subject,
			"eventType": envelope.EventType,
			"eventId":   envelope.EventID,
			"error":     err,
		}).Error("Failed to deserialize event payload")
		return fmt.Errorf("failed to deserialize event payload: %w", err)
	}

	s.mu.RLock()
	handlers := s.handlers[subject]
	s.mu.RUnlock()
	if len(handlers) == 0 {
		return fmt.Errorf("no handler registered for subject %s", subject)
	}

	// Every handler runs; a failure of any of them gets the message redelivered
	var errs []error
	for _, handler := range handlers {
		if err := handler(context.Background(), event); err != nil {
			log.WithFields(log.Fields{
				"subject":   subject,
				"eventType": envelope.EventType,
				"eventId":   envelope.EventID,
				"error":     err,
			}).Error("Event handler failed")
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	log.WithFields(log.Fields{
		"subject": subject,
		"eventId": envelope.EventID,
	}).Debug("Successfully processed NATS event")

	return nil
}
