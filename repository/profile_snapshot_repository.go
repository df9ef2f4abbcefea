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

// ProfileSnapshotRepository implements profile snapshot data access
type ProfileSnapshotRepository struct {
	q Queryable
}

// NewProfileSnapshotRepository creates a new profile snapshot repository
func NewProfileSnapshotRepository(db *database.DB) *ProfileSnapshotRepository {
	return &ProfileSnapshotRepository{q: db.Pool}
}

func newProfileSnapshotRepository(q Queryable) *ProfileSnapshotRepository {
	return &ProfileSnapshotRepository{q: q}
}

// GetByAddress retrieves the last stored profile for an address, or nil
func (r *ProfileSnapshotRepository) GetByAddress(ctx context.Context, addr common.Address) (*entities.UserProfile, error) {
	query := `
		SELECT address, username, participated_lotteries::text[], won_lotteries::text[],
		       total_winnings::text, fetched_at
		FROM profile_snapshots
		WHERE address = $1
	`

	var (
		profile      entities.UserProfile
		addressText  string
		participated []string
		won          []string
		winnings     string
	)
	err := r.q.QueryRow(ctx, query, addr.Hex()).Scan(
		&addressText,
		&profile.Username,
		&participated,
		&won,
		&winnings,
		&profile.FetchedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile snapshot %s: %w", addr.Hex(), err)
	}

	profile.Address = common.HexToAddress(addressText)
	if profile.ParticipatedLotteries, err = parseUints(participated); err != nil {
		return nil, err
	}
	if profile.WonLotteries, err = parseUints(won); err != nil {
		return nil, err
	}
	if profile.TotalWinnings, err = parseWei(winnings); err != nil {
		return nil, err
	}

	return &profile, nil
}

// Upsert stores the fetched profile of an address
func (r *ProfileSnapshotRepository) Upsert(ctx context.Context, profile *entities.UserProfile) error {
	query := `
		INSERT INTO profile_snapshots (address, username, participated_lotteries, won_lotteries, total_winnings, fetched_at)
		VALUES ($1, $2, $3::text[]::numeric[], $4::text[]::numeric[], $5::text::numeric, $6)
		ON CONFLICT (address) DO UPDATE SET
			username = EXCLUDED.username,
			participated_lotteries = EXCLUDED.participated_lotteries,
			won_lotteries = EXCLUDED.won_lotteries,
			total_winnings = EXCLUDED.total_winnings,
			fetched_at = EXCLUDED.fetched_at
	`

	_, err := r.q.Exec(ctx, query,
		profile.Address.Hex(),
		profile.Username,
		formatUints(profile.ParticipatedLotteries),
		formatUints(profile.WonLotteries),
		formatWei(profile.TotalWinnings),
		profile.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile snapshot %s: %w", profile.Address.Hex(), err)
	}

	return nil
}
