package application

import (
	"context"
	"fmt"
	"time"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/events"

	log "github.com/sirupsen/logrus"
)

// TransactionRecorder stores every confirmed contract write in the transaction history
type TransactionRecorder struct {
	uowFactory UnitOfWorkFactory
}

// NewTransactionRecorder creates a new transaction recorder
func NewTransactionRecorder(uowFactory UnitOfWorkFactory) *TransactionRecorder {
	return &TransactionRecorder{uowFactory: uowFactory}
}

// HandleDepositConfirmed records a mined deposit
func (r *TransactionRecorder) HandleDepositConfirmed(ctx context.Context, event events.Event) error {
	deposit, err := AssertEventType[events.DepositConfirmedEvent](event, "DepositConfirmedEvent")
	if err != nil {
		return err
	}

	lotteryID := deposit.LotteryID
	tx := &entities.ContractTransaction{
		Kind:      entities.TransactionKindDeposit,
		TxHash:    deposit.TxHash,
		From:      deposit.Depositor,
		LotteryID: &lotteryID,
		Amount:    deposit.Amount,
	}
	tx.Confirm(deposit.BlockNumber, deposit.Success, time.Now().UTC())

	return r.record(ctx, tx, nil)
}

// HandleUsernameRegistered records a mined registration and carries the new
// username into the cached profile
func (r *TransactionRecorder) HandleUsernameRegistered(ctx context.Context, event events.Event) error {
	registration, err := AssertEventType[events.UsernameRegisteredEvent](event, "UsernameRegisteredEvent")
	if err != nil {
		return err
	}

	tx := &entities.ContractTransaction{
		Kind:     entities.TransactionKindRegisterUsername,
		TxHash:   registration.TxHash,
		From:     registration.Address,
		Username: registration.Username,
	}
	tx.Confirm(registration.BlockNumber, registration.Success, time.Now().UTC())

	if !registration.Success {
		return r.record(ctx, tx, nil)
	}
	return r.record(ctx, tx, func(ctx context.Context, uow UnitOfWork) error {
		repo := uow.ProfileSnapshotRepository()
		profile, err := repo.GetByAddress(ctx, registration.Address)
		if err != nil {
			return fmt.Errorf("failed to get profile snapshot: %w", err)
		}
		if profile == nil {
			return nil
		}
		profile.Username = registration.Username
		return repo.Upsert(ctx, profile)
	})
}

func (r *TransactionRecorder) record(ctx context.Context, tx *entities.ContractTransaction, also func(context.Context, UnitOfWork) error) error {
	uow := r.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.ContractTransactionRepository().Record(ctx, tx); err != nil {
		return fmt.Errorf("failed to record transaction %s: %w", tx.TxHash.Hex(), err)
	}
	if also != nil {
		if err := also(ctx, uow); err != nil {
			return err
		}
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction record: %w", err)
	}

	log.WithFields(log.Fields{
		"kind":    tx.Kind,
		"tx_hash": tx.TxHash.Hex(),
		"from":    tx.From.Hex(),
		"status":  tx.Status,
	}).Info("Recorded contract transaction")

	return nil
}
