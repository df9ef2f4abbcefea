package observability

import (
	"context"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/events"
	"fortuneblock/domain/interfaces"
)

// RegisterEventMetrics counts mined contract transactions from the domain events.
// The active lottery gauge is set by the sync worker instead.
func RegisterEventMetrics(subscriber interfaces.EventSubscriber, mp *MetricsProvider) error {
	handlers := map[events.EventType]func(context.Context, events.Event) error{
		events.EventTypeDepositConfirmed: func(ctx context.Context, event events.Event) error {
			if deposit, ok := event.(events.DepositConfirmedEvent); ok {
				mp.RecordContractTransaction(string(entities.TransactionKindDeposit), deposit.Success)
			}
			return nil
		},
		events.EventTypeUsernameRegistered: func(ctx context.Context, event events.Event) error {
			if registration, ok := event.(events.UsernameRegisteredEvent); ok {
				mp.RecordContractTransaction(string(entities.TransactionKindRegisterUsername), registration.Success)
			}
			return nil
		},
	}

	for eventType, handler := range handlers {
		if err := subscriber.Subscribe(eventType, handler); err != nil {
			return err
		}
	}
	return nil
}
