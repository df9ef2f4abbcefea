package infrastructure

import (
	"encoding/json"
	"fmt"
	"time"

	"fortuneblock/domain/events"

	"github.com/google/uuid"
)

// EventEnvelope wraps every event published to NATS
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// NewEventEnvelope serializes event into a new envelope
func NewEventEnvelope(event events.Event, source string) (*EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return &EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     time.Now().UTC(),
		SourceService: source,
		Payload:       payload,
	}, nil
}

// DecodeEvent deserializes the envelope payload into its concrete event type
func (e *EventEnvelope) DecodeEvent() (events.Event, error) {
	var event events.Event

	switch events.EventType(e.EventType) {
	case events.EventTypeLotteryOpened:
		var ev events.LotteryOpenedEvent
		if err := json.Unmarshal(e.Payload, &ev); err != nil {
			return nil, err
		}
		event = ev
	case events.EventTypeLotteryUpdated:
		var ev events.LotteryUpdatedEvent
		if err := json.Unmarshal(e.Payload, &ev); err != nil {
			return nil, err
		}
		event = ev
	case events.EventTypeLotteryClosed:
		var ev events.LotteryClosedEvent
		if err := json.Unmarshal(e.Payload, &ev); err != nil {
			return nil, err
		}
		event = ev
	case events.EventTypeDepositConfirmed:
		var ev events.DepositConfirmedEvent
		if err := json.Unmarshal(e.Payload, &ev); err != nil {
			return nil, err
		}
		event = ev
	case events.EventTypeUsernameRegistered:
		var ev events.UsernameRegisteredEvent
		if err := json.Unmarshal(e.Payload, &ev); err != nil {
			return nil, err
		}
		event = ev
	default:
		return nil, fmt.Errorf("unknown event type: %s", e.EventType)
	}

	return event, nil
}
