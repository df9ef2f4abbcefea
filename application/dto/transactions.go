package dto

import (
	"fmt"
	"time"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/utils"
)

// TransactionDTO is a recorded contract write as displayed to users
type TransactionDTO struct {
	Kind        string     `json:"kind"`
	TxHash      string     `json:"tx_hash"`
	From        string     `json:"from"`
	LotteryID   *uint64    `json:"lottery_id,omitempty"`
	Amount      string     `json:"amount,omitempty"`
	Username    string     `json:"username,omitempty"`
	BlockNumber *uint64    `json:"block_number,omitempty"`
	Status      string     `json:"status"`
	Final       bool       `json:"final"`
	CreatedAt   time.Time  `json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at,omitempty"`
	Summary     string     `json:"summary"`
}

// NewTransactionDTO converts a recorded transaction for display
func NewTransactionDTO(tx *entities.ContractTransaction, symbol string) TransactionDTO {
	view := TransactionDTO{
		Kind:        string(tx.Kind),
		TxHash:      tx.TxHash.Hex(),
		From:        tx.From.Hex(),
		LotteryID:   tx.LotteryID,
		Username:    tx.Username,
		BlockNumber: tx.BlockNumber,
		Status:      string(tx.Status),
		Final:       tx.IsFinal(),
		CreatedAt:   tx.CreatedAt,
		ConfirmedAt: tx.ConfirmedAt,
	}
	if tx.Amount != nil {
		view.Amount = utils.FormatAmount(tx.Amount, symbol)
	}

	switch tx.Kind {
	case entities.TransactionKindDeposit:
		view.Summary = "Deposit"
		if view.Amount != "" {
			view.Summary += " of " + view.Amount
		}
		if tx.LotteryID != nil {
			view.Summary += fmt.Sprintf(" into lottery #%d", *tx.LotteryID)
		}
	case entities.TransactionKindRegisterUsername:
		view.Summary = fmt.Sprintf("Registered username %q", tx.Username)
	default:
		view.Summary = string(tx.Kind)
	}
	return view
}

// NewTransactionDTOs converts a list of transactions, keeping their order
func NewTransactionDTOs(txs []*entities.ContractTransaction, symbol string) []TransactionDTO {
	views := make([]TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		views = append(views, NewTransactionDTO(tx, symbol))
	}
	return views
}
