package interfaces

import (
	"context"

	"fortuneblock/domain/entities"

	"github.com/ethereum/go-ethereum/common"
)

// LotterySnapshotRepository stores the last fetched state of each lottery
type LotterySnapshotRepository interface {
	GetByID(ctx context.Context, lotteryID uint64) (*entities.Lottery, error)
	Upsert(ctx context.Context, lottery *entities.Lottery) error
	ListActive(ctx context.Context) ([]*entities.Lottery, error)
	// MarkClosed flags every active snapshot whose ID is not in activeIDs
	// as closed and returns the snapshots it closed
	MarkClosed(ctx context.Context, activeIDs []uint64) ([]*entities.Lottery, error)
	SetMessage(ctx context.Context, lotteryID uint64, channelID, messageID int64) error
}

// ProfileSnapshotRepository stores the last fetched profile per address
type ProfileSnapshotRepository interface {
	GetByAddress(ctx context.Context, addr common.Address) (*entities.UserProfile, error)
	Upsert(ctx context.Context, profile *entities.UserProfile) error
}

// ContractTransactionRepository records writes made through this client
type ContractTransactionRepository interface {
	Record(ctx context.Context, tx *entities.ContractTransaction) error
	GetByHash(ctx context.Context, hash common.Hash) (*entities.ContractTransaction, error)
	ListByAddress(ctx context.Context, addr common.Address, limit int) ([]*entities.ContractTransaction, error)
}

// WalletLinkRepository maps Discord users to wallet addresses
type WalletLinkRepository interface {
	Link(ctx context.Context, discordID int64, addr common.Address) (*entities.WalletLink, error)
	GetByDiscordID(ctx context.Context, discordID int64) (*entities.WalletLink, error)
}
