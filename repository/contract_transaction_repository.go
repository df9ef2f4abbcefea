package repository

import (
	"context"
	"errors"
	"fmt"

	"fortuneblock/database"
	"fortuneblock/domain/entities"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgx/v5"
)

const contractTransactionColumns = `
	id, kind::text, tx_hash, from_address, lottery_id::text, amount::text,
	username, block_number, status::text, created_at, confirmed_at`

// ContractTransactionRepository implements contract transaction data access
type ContractTransactionRepository struct {
	q Queryable
}

// NewContractTransactionRepository creates a new contract transaction repository
func NewContractTransactionRepository(db *database.DB) *ContractTransactionRepository {
	return &ContractTransactionRepository{q: db.Pool}
}

func newContractTransactionRepository(q Queryable) *ContractTransactionRepository {
	return &ContractTransactionRepository{q: q}
}

// Record inserts a transaction or, when its hash is already known, updates its
// mining outcome. ID and CreatedAt are filled in on tx.
func (r *ContractTransactionRepository) Record(ctx context.Context, tx *entities.ContractTransaction) error {
	query := `
		INSERT INTO contract_transactions (
			kind, tx_hash, from_address, lottery_id, amount, username,
			block_number, status, confirmed_at
		)
		VALUES (
			$1::text::contract_transaction_kind, $2, $3, $4::text::numeric, $5::text::numeric, $6,
			$7, $8::text::contract_transaction_status, $9
		)
		ON CONFLICT (tx_hash) DO UPDATE SET
			block_number = EXCLUDED.block_number,
			status = EXCLUDED.status,
			confirmed_at = EXCLUDED.confirmed_at
		RETURNING id, created_at
	`

	var lotteryID, amount, username *string
	if tx.LotteryID != nil {
		s := formatUint(*tx.LotteryID)
		lotteryID = &s
	}
	if tx.Amount != nil {
		s := formatWei(tx.Amount)
		amount = &s
	}
	if tx.Username != "" {
		username = &tx.Username
	}
	var blockNumber *int64
	if tx.BlockNumber != nil {
		b := int64(*tx.BlockNumber)
		blockNumber = &b
	}

	err := r.q.QueryRow(ctx, query,
		string(tx.Kind),
		tx.TxHash.Hex(),
		tx.From.Hex(),
		lotteryID,
		amount,
		username,
		blockNumber,
		string(tx.Status),
		tx.ConfirmedAt,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record transaction %s: %w", tx.TxHash.Hex(), err)
	}

	return nil
}

// GetByHash retrieves a transaction by hash, or nil
func (r *ContractTransactionRepository) GetByHash(ctx context.Context, hash common.Hash) (*entities.ContractTransaction, error) {
	query := `SELECT ` + contractTransactionColumns + `
		FROM contract_transactions
		WHERE tx_hash = $1
	`

	tx, err := scanContractTransaction(r.q.QueryRow(ctx, query, hash.Hex()))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %s: %w", hash.Hex(), err)
	}
	return tx, nil
}

// ListByAddress returns the most recent transactions sent from addr, newest first
func (r *ContractTransactionRepository) ListByAddress(ctx context.Context, addr common.Address, limit int) ([]*entities.ContractTransaction, error) {
	query := `SELECT ` + contractTransactionColumns + `
		FROM contract_transactions
		WHERE from_address = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, addr.Hex(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions for %s: %w", addr.Hex(), err)
	}
	defer rows.Close()

	txs := make([]*entities.ContractTransaction, 0)
	for rows.Next() {
		tx, err := scanContractTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txs, nil
}

func scanContractTransaction(row pgx.Row) (*entities.ContractTransaction, error) {
	var (
		tx          entities.ContractTransaction
		kind        string
		hash        string
		from        string
		lotteryID   *string
		amount      *string
		username    *string
		blockNumber *int64
		status      string
	)

	err := row.Scan(
		&tx.ID,
		&kind,
		&hash,
		&from,
		&lotteryID,
		&amount,
		&username,
		&blockNumber,
		&status,
		&tx.CreatedAt,
		&tx.ConfirmedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.Kind = entities.TransactionKind(kind)
	tx.Status = entities.TransactionStatus(status)
	tx.TxHash = common.HexToHash(hash)
	tx.From = common.HexToAddress(from)
	if lotteryID != nil {
		id, err := parseUint(*lotteryID)
		if err != nil {
			return nil, err
		}
		tx.LotteryID = &id
	}
	if amount != nil {
		if tx.Amount, err = parseWei(*amount); err != nil {
			return nil, err
		}
	}
	if username != nil {
		tx.Username = *username
	}
	if blockNumber != nil {
		b := uint64(*blockNumber)
		tx.BlockNumber = &b
	}

	return &tx, nil
}
