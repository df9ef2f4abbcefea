package entities

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionKind identifies which contract write produced a transaction
type TransactionKind string

const (
	TransactionKindDeposit          TransactionKind = "deposit"
	TransactionKindRegisterUsername TransactionKind = "register_username"
)

// TransactionStatus tracks a submitted transaction through mining
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// ContractTransaction records a write this client made against the contract
type ContractTransaction struct {
	ID          int64             `db:"id"`
	Kind        TransactionKind   `db:"kind"`
	TxHash      common.Hash       `db:"tx_hash"`
	From        common.Address    `db:"from_address"`
	LotteryID   *uint64           `db:"lottery_id"` // deposits only
	Amount      *big.Int          `db:"amount"`     // deposits only, wei
	Username    string            `db:"username"`   // registrations only
	BlockNumber *uint64           `db:"block_number"`
	Status      TransactionStatus `db:"status"`
	CreatedAt   time.Time         `db:"created_at"`
	ConfirmedAt *time.Time        `db:"confirmed_at"`
}

// IsFinal returns true once the transaction is mined, successfully or not
func (t *ContractTransaction) IsFinal() bool {
	return t.Status == TransactionStatusConfirmed || t.Status == TransactionStatusFailed
}

// Confirm marks the transaction as mined in the given block
func (t *ContractTransaction) Confirm(blockNumber uint64, success bool, at time.Time) {
	t.BlockNumber = &blockNumber
	t.ConfirmedAt = &at
	if success {
		t.Status = TransactionStatusConfirmed
	} else {
		t.Status = TransactionStatusFailed
	}
}
