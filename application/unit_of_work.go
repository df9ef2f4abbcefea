package application

import (
	"context"

	"fortuneblock/domain/interfaces"
)

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and publishes the events raised inside it
	Commit() error

	// Rollback rolls back the transaction and drops the events raised inside it
	Rollback() error

	LotterySnapshotRepository() interfaces.LotterySnapshotRepository
	ProfileSnapshotRepository() interfaces.ProfileSnapshotRepository
	ContractTransactionRepository() interfaces.ContractTransactionRepository
	WalletLinkRepository() interfaces.WalletLinkRepository
	EventBus() interfaces.EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
