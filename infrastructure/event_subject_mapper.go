package infrastructure

import (
	"fmt"

	"fortuneblock/domain/events"
)

const (
	SubjectLotteryOpened      = "lottery.opened"
	SubjectLotteryUpdated     = "lottery.updated"
	SubjectLotteryClosed      = "lottery.closed"
	SubjectDepositConfirmed   = "lottery.deposit.confirmed"
	SubjectUsernameRegistered = "profile.username.registered"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	return m.MapEventTypeToSubject(event.Type())
}

// MapEventTypeToSubject converts an event type to its NATS subject
func (m *EventSubjectMapper) MapEventTypeToSubject(eventType events.EventType) string {
	switch eventType {
	case events.EventTypeLotteryOpened:
		return SubjectLotteryOpened
	case events.EventTypeLotteryUpdated:
		return SubjectLotteryUpdated
	case events.EventTypeLotteryClosed:
		return SubjectLotteryClosed
	case events.EventTypeDepositConfirmed:
		return SubjectDepositConfirmed
	case events.EventTypeUsernameRegistered:
		return SubjectUsernameRegistered
	default:
		return fmt.Sprintf("unknown.%s", eventType)
	}
}

// MapSubjectToEventType converts a NATS subject back to an event type
func (m *EventSubjectMapper) MapSubjectToEventType(subject string) events.EventType {
	switch subject {
	case SubjectLotteryOpened:
		return events.EventTypeLotteryOpened
	case SubjectLotteryUpdated:
		return events.EventTypeLotteryUpdated
	case SubjectLotteryClosed:
		return events.EventTypeLotteryClosed
	case SubjectDepositConfirmed:
		return events.EventTypeDepositConfirmed
	case SubjectUsernameRegistered:
		return events.EventTypeUsernameRegistered
	default:
		return events.EventType(subject)
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		SubjectLotteryOpened,
		SubjectLotteryUpdated,
		SubjectLotteryClosed,
		SubjectDepositConfirmed,
		SubjectUsernameRegistered,
	}
}
