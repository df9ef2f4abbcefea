package interfaces

import (
	"context"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/events"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// EventPublisher publishes domain events
type EventPublisher interface {
	Publish(event events.Event) error
}

// LotteryService defines the operations behind the lotteries view
type LotteryService interface {
	ListActiveLotteries(ctx context.Context) ([]*entities.Lottery, error)
	GetLottery(ctx context.Context, lotteryID uint64) (*entities.Lottery, error)
	Deposit(ctx context.Context, lotteryID uint64, amount string) (*DepositResult, error)
}

// ProfileService defines the operations behind the profile view and registration
type ProfileService interface {
	GetProfile(ctx context.Context, addr common.Address) (*entities.UserProfile, error)
	GetAccountProfile(ctx context.Context) (*entities.UserProfile, error)
	RegisterUsername(ctx context.Context, username string) (*RegistrationResult, error)
}

// DepositResult contains the outcome of a confirmed deposit
type DepositResult struct {
	Transaction *types.Transaction
	Receipt     *types.Receipt
	Lottery     *entities.Lottery // refreshed after the deposit was mined
}

// RegistrationResult contains the outcome of a confirmed username registration
type RegistrationResult struct {
	Username    string
	Transaction *types.Transaction
	Receipt     *types.Receipt
}

// TransactionalEventPublisher holds events until the surrounding transaction commits
type TransactionalEventPublisher interface {
	EventPublisher
	Flush(ctx context.Context) error
	Discard()
}

// EventSubscriber subscribes handlers to domain events without depending on
// the transport behind them
type EventSubscriber interface {
	Subscribe(eventType events.EventType, handler func(context.Context, events.Event) error) error
}
