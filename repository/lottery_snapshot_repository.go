package repository

import (
	"context"
	"errors"
	"fmt"

	"fortuneblock/database"
	"fortuneblock/domain/entities"

	"github.com/jackc/pgx/v5"
)

const lotterySnapshotColumns = `
	lottery_id::text, end_time, prize_pool::text, participants, active,
	channel_id, message_id, fetched_at`

// LotterySnapshotRepository implements lottery snapshot data access
type LotterySnapshotRepository struct {
	q Queryable
}

// NewLotterySnapshotRepository creates a new lottery snapshot repository
func NewLotterySnapshotRepository(db *database.DB) *LotterySnapshotRepository {
	return &LotterySnapshotRepository{q: db.Pool}
}

// newLotterySnapshotRepository creates a repository bound to a transaction
func newLotterySnapshotRepository(q Queryable) *LotterySnapshotRepository {
	return &LotterySnapshotRepository{q: q}
}

// GetByID retrieves a snapshot by lottery ID, returning nil if it has never been stored
func (r *LotterySnapshotRepository) GetByID(ctx context.Context, lotteryID uint64) (*entities.Lottery, error) {
	query := `SELECT ` + lotterySnapshotColumns + `
		FROM lottery_snapshots
		WHERE lottery_id = $1::text::numeric
	`

	lottery, err := scanLottery(r.q.QueryRow(ctx, query, formatUint(lotteryID)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery snapshot %d: %w", lotteryID, err)
	}

	return lottery, nil
}

// Upsert stores the fetched state of a lottery. Discord message tracking is left untouched.
func (r *LotterySnapshotRepository) Upsert(ctx context.Context, lottery *entities.Lottery) error {
	query := `
		INSERT INTO lottery_snapshots (lottery_id, end_time, prize_pool, participants, active, fetched_at)
		VALUES ($1::text::numeric, $2, $3::text::numeric, $4::text[], $5, $6)
		ON CONFLICT (lottery_id) DO UPDATE SET
			end_time = EXCLUDED.end_time,
			prize_pool = EXCLUDED.prize_pool,
			participants = EXCLUDED.participants,
			active = EXCLUDED.active,
			fetched_at = EXCLUDED.fetched_at,
			closed_at = CASE WHEN EXCLUDED.active THEN NULL ELSE lottery_snapshots.closed_at END
	`

	_, err := r.q.Exec(ctx, query,
		formatUint(lottery.ID),
		lottery.EndTime,
		formatWei(lottery.PrizePool),
		formatAddresses(lottery.Participants),
		lottery.Active,
		lottery.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert lottery snapshot %d: %w", lottery.ID, err)
	}

	return nil
}

// ListActive returns all snapshots still marked active, ordered by lottery ID
func (r *LotterySnapshotRepository) ListActive(ctx context.Context) ([]*entities.Lottery, error) {
	query := `SELECT ` + lotterySnapshotColumns + `
		FROM lottery_snapshots
		WHERE active
		ORDER BY lottery_id
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active lottery snapshots: %w", err)
	}
	defer rows.Close()

	return collectLotteries(rows)
}

// MarkClosed flags every active snapshot whose ID is not in activeIDs as closed
// and returns the snapshots it closed
func (r *LotterySnapshotRepository) MarkClosed(ctx context.Context, activeIDs []uint64) ([]*entities.Lottery, error) {
	query := `
		UPDATE lottery_snapshots
		SET active = FALSE, closed_at = CURRENT_TIMESTAMP
		WHERE active AND NOT (lottery_id = ANY($1::text[]::numeric[]))
		RETURNING ` + lotterySnapshotColumns

	rows, err := r.q.Query(ctx, query, formatUints(activeIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to close lottery snapshots: %w", err)
	}
	defer rows.Close()

	return collectLotteries(rows)
}

// SetMessage records the Discord message announcing a lottery
func (r *LotterySnapshotRepository) SetMessage(ctx context.Context, lotteryID uint64, channelID, messageID int64) error {
	query := `
		UPDATE lottery_snapshots
		SET channel_id = $2, message_id = $3
		WHERE lottery_id = $1::text::numeric
	`

	result, err := r.q.Exec(ctx, query, formatUint(lotteryID), channelID, messageID)
	if err != nil {
		return fmt.Errorf("failed to set message for lottery %d: %w", lotteryID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("lottery snapshot %d not found", lotteryID)
	}

	return nil
}

func scanLottery(row pgx.Row) (*entities.Lottery, error) {
	var (
		lottery      entities.Lottery
		idText       string
		poolText     string
		participants []string
	)

	err := row.Scan(
		&idText,
		&lottery.EndTime,
		&poolText,
		&participants,
		&lottery.Active,
		&lottery.ChannelID,
		&lottery.MessageID,
		&lottery.FetchedAt,
	)
	if err != nil {
		return nil, err
	}

	if lottery.ID, err = parseUint(idText); err != nil {
		return nil, err
	}
	if lottery.PrizePool, err = parseWei(poolText); err != nil {
		return nil, err
	}
	lottery.Participants = parseAddresses(participants)

	return &lottery, nil
}

func collectLotteries(rows pgx.Rows) ([]*entities.Lottery, error) {
	lotteries := make([]*entities.Lottery, 0)
	for rows.Next() {
		lottery, err := scanLottery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lottery snapshot: %w", err)
		}
		lotteries = append(lotteries, lottery)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lottery snapshots: %w", err)
	}
	return lotteries, nil
}
