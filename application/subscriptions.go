package application

import (
	"fmt"

	"fortuneblock/domain/events"
	"fortuneblock/domain/interfaces"
)

// RegisterApplicationSubscriptions registers all application-level event subscriptions
func RegisterApplicationSubscriptions(subscriber interfaces.EventSubscriber, uowFactory UnitOfWorkFactory) error {
	recorder := NewTransactionRecorder(uowFactory)

	if err := subscriber.Subscribe(events.EventTypeDepositConfirmed, recorder.HandleDepositConfirmed); err != nil {
		return fmt.Errorf("failed to subscribe to deposit events: %w", err)
	}
	if err := subscriber.Subscribe(events.EventTypeUsernameRegistered, recorder.HandleUsernameRegistered); err != nil {
		return fmt.Errorf("failed to subscribe to registration events: %w", err)
	}
	return nil
}
