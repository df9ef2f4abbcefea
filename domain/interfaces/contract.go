package interfaces

import (
	"context"
	"math/big"

	"fortuneblock/domain/entities"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// LotteryContract is the ABI boundary to the FortuneBlock lottery contract
type LotteryContract interface {
	// GetActiveLotteries returns the identifiers of lotteries still accepting deposits
	GetActiveLotteries(ctx context.Context) ([]uint64, error)

	// GetLotteryDetails returns the on-chain state of a single lottery
	GetLotteryDetails(ctx context.Context, lotteryID uint64) (*entities.Lottery, error)

	// GetUserProfile returns the profile stored for an address.
	// Unregistered addresses come back with an empty username.
	GetUserProfile(ctx context.Context, addr common.Address) (*entities.UserProfile, error)

	// Deposit stakes value into a lottery from the connected account
	Deposit(ctx context.Context, lotteryID uint64, value *big.Int) (*types.Transaction, error)

	// RegisterUsername registers a username for the connected account
	RegisterUsername(ctx context.Context, username string) (*types.Transaction, error)

	// WaitMined blocks until the transaction has a receipt
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)

	// Account returns the connected account, if any
	Account() (common.Address, bool)
}
