package repository

import (
	"context"
	"errors"
	"fmt"

	"fortuneblock/application"
	"fortuneblock/database"
	"fortuneblock/domain/interfaces"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the application.UnitOfWork interface
type unitOfWork struct {
	db                     *database.DB
	tx                     pgx.Tx
	ctx                    context.Context
	transactionalPublisher interfaces.TransactionalEventPublisher
	lotteryRepo            interfaces.LotterySnapshotRepository
	profileRepo            interfaces.ProfileSnapshotRepository
	transactionRepo        interfaces.ContractTransactionRepository
	walletLinkRepo         interfaces.WalletLinkRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db: db,
	}
}

// UnitOfWorkFactory creates repository units of work over one pool
type UnitOfWorkFactory struct {
	db *database.DB
}

// CreateWithPublisher creates a new UnitOfWork that flushes transactionalPublisher on commit
func (f *UnitOfWorkFactory) CreateWithPublisher(transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork {
	return &unitOfWork{
		db:                     f.db,
		transactionalPublisher: transactionalPublisher,
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	u.lotteryRepo = newLotterySnapshotRepository(tx)
	u.profileRepo = newProfileSnapshotRepository(tx)
	u.transactionRepo = newContractTransactionRepository(tx)
	u.walletLinkRepo = newWalletLinkRepository(tx)

	return nil
}

// Commit commits the transaction
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		if err := u.transactionalPublisher.Flush(u.ctx); err != nil {
			return fmt.Errorf("failed to flush events: %w", err)
		}
	}

	return nil
}

// Rollback rolls back the transaction
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalPublisher != nil {
		u.transactionalPublisher.Discard()
	}

	return nil
}

// LotterySnapshotRepository returns the lottery snapshot repository for this unit of work
func (u *unitOfWork) LotterySnapshotRepository() interfaces.LotterySnapshotRepository {
	if u.lotteryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.lotteryRepo
}

// ProfileSnapshotRepository returns the profile snapshot repository for this unit of work
func (u *unitOfWork) ProfileSnapshotRepository() interfaces.ProfileSnapshotRepository {
	if u.profileRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.profileRepo
}

// ContractTransactionRepository returns the transaction repository for this unit of work
func (u *unitOfWork) ContractTransactionRepository() interfaces.ContractTransactionRepository {
	if u.transactionRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionRepo
}

// WalletLinkRepository returns the wallet link repository for this unit of work
func (u *unitOfWork) WalletLinkRepository() interfaces.WalletLinkRepository {
	if u.walletLinkRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.walletLinkRepo
}

// EventBus returns the publisher whose events are held until commit
func (u *unitOfWork) EventBus() interfaces.EventPublisher {
	return u.transactionalPublisher
}
