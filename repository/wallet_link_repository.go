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

// WalletLinkRepository implements wallet link data access
type WalletLinkRepository struct {
	q Queryable
}

// NewWalletLinkRepository creates a new wallet link repository
func NewWalletLinkRepository(db *database.DB) *WalletLinkRepository {
	return &WalletLinkRepository{q: db.Pool}
}

func newWalletLinkRepository(q Queryable) *WalletLinkRepository {
	return &WalletLinkRepository{q: q}
}

// Link associates a Discord user with an address, replacing any previous link
func (r *WalletLinkRepository) Link(ctx context.Context, discordID int64, addr common.Address) (*entities.WalletLink, error) {
	query := `
		INSERT INTO wallet_links (discord_id, address, linked_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (discord_id) DO UPDATE SET
			address = EXCLUDED.address,
			linked_at = EXCLUDED.linked_at
		RETURNING discord_id, address, linked_at
	`

	link, err := scanWalletLink(r.q.QueryRow(ctx, query, discordID, addr.Hex()))
	if err != nil {
		return nil, fmt.Errorf("failed to link wallet for user %d: %w", discordID, err)
	}
	return link, nil
}

// GetByDiscordID returns the linked wallet of a Discord user, or nil
func (r *WalletLinkRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.WalletLink, error) {
	query := `
		SELECT discord_id, address, linked_at
		FROM wallet_links
		WHERE discord_id = $1
	`

	link, err := scanWalletLink(r.q.QueryRow(ctx, query, discordID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet link for user %d: %w", discordID, err)
	}
	return link, nil
}

func scanWalletLink(row pgx.Row) (*entities.WalletLink, error) {
	var (
		link    entities.WalletLink
		address string
	)
	if err := row.Scan(&link.DiscordID, &address, &link.LinkedAt); err != nil {
		return nil, err
	}
	link.Address = common.HexToAddress(address)
	return &link, nil
}
