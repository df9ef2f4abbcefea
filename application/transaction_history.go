package application

import (
	"context"
	"fmt"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/services"

	"github.com/ethereum/go-ethereum/common"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// TransactionHistory reads the contract writes stored by TransactionRecorder
type TransactionHistory struct {
	uowFactory UnitOfWorkFactory
}

// NewTransactionHistory creates a new transaction history reader
func NewTransactionHistory(uowFactory UnitOfWorkFactory) *TransactionHistory {
	return &TransactionHistory{uowFactory: uowFactory}
}

// List returns the newest transactions sent from addr. limit is clamped to
// 1..MaxHistoryLimit, zero or less meaning DefaultHistoryLimit.
func (h *TransactionHistory) List(ctx context.Context, addr common.Address, limit int) ([]*entities.ContractTransaction, error) {
	switch {
	case limit <= 0:
		limit = DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		limit = MaxHistoryLimit
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.ContractTransactionRepository().ListByAddress(ctx, addr, limit)
}

// Get returns one recorded transaction or services.ErrTransactionNotFound
func (h *TransactionHistory) Get(ctx context.Context, hash common.Hash) (*entities.ContractTransaction, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	tx, err := uow.ContractTransactionRepository().GetByHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, fmt.Errorf("%w: %s", services.ErrTransactionNotFound, hash.Hex())
	}
	return tx, nil
}
