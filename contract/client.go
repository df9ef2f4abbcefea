package contract

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/interfaces"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Backend is everything the client and deployer need from a chain connection.
// *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
}

// Client implements interfaces.LotteryContract on top of the FortuneBlock binding
type Client struct {
	backend Backend
	binding *FortuneBlock
	signer  *Signer
}

var _ interfaces.LotteryContract = (*Client)(nil)

// NewClient creates a client for the contract at address. signer may be nil,
// in which case writes fail with ErrWalletNotConnected from the services.
func NewClient(backend Backend, address common.Address, signer *Signer) (*Client, error) {
	binding, err := NewFortuneBlock(address, backend, backend)
	if err != nil {
		return nil, err
	}
	return &Client{
		backend: backend,
		binding: binding,
		signer:  signer,
	}, nil
}

// Dial connects to an RPC endpoint
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	return eth, nil
}

// Address returns the contract address
func (c *Client) Address() common.Address {
	return c.binding.Address()
}

// Account returns the signing account, if any
func (c *Client) Account() (common.Address, bool) {
	if c.signer == nil {
		return common.Address{}, false
	}
	return c.signer.Address(), true
}

// GetActiveLotteries returns the IDs of the active lotteries in contract order
func (c *Client) GetActiveLotteries(ctx context.Context) ([]uint64, error) {
	raw, err := c.binding.GetActiveLotteries(&bind.CallOpts{Context: ctx})
	if err != nil {
		return nil, fmt.Errorf("getActiveLotteries: %w", err)
	}
	return toUint64s(raw)
}

// GetLotteryDetails returns the current state of a lottery
func (c *Client) GetLotteryDetails(ctx context.Context, lotteryID uint64) (*entities.Lottery, error) {
	details, err := c.binding.GetLotteryDetails(&bind.CallOpts{Context: ctx}, new(big.Int).SetUint64(lotteryID))
	if err != nil {
		return nil, fmt.Errorf("getLotteryDetails(%d): %w", lotteryID, err)
	}
	if !details.EndTime.IsInt64() {
		return nil, fmt.Errorf("getLotteryDetails(%d): end time %s out of range", lotteryID, details.EndTime)
	}

	return &entities.Lottery{
		ID:           lotteryID,
		EndTime:      time.Unix(details.EndTime.Int64(), 0).UTC(),
		PrizePool:    details.PrizePool,
		Participants: details.Participants,
		FetchedAt:    time.Now().UTC(),
	}, nil
}

// GetUserProfile returns the profile of addr. Unregistered addresses come back
// with an empty username.
func (c *Client) GetUserProfile(ctx context.Context, addr common.Address) (*entities.UserProfile, error) {
	raw, err := c.binding.GetUserProfile(&bind.CallOpts{Context: ctx}, addr)
	if err != nil {
		return nil, fmt.Errorf("getUserProfile(%s): %w", addr.Hex(), err)
	}

	participated, err := toUint64s(raw.ParticipatedLotteries)
	if err != nil {
		return nil, err
	}
	won, err := toUint64s(raw.WonLotteries)
	if err != nil {
		return nil, err
	}

	return &entities.UserProfile{
		Address:               addr,
		Username:              raw.Username,
		ParticipatedLotteries: participated,
		WonLotteries:          won,
		TotalWinnings:         raw.TotalWinnings,
		FetchedAt:             time.Now().UTC(),
	}, nil
}

// Deposit sends value wei to the lottery
func (c *Client) Deposit(ctx context.Context, lotteryID uint64, value *big.Int) (*types.Transaction, error) {
	if c.signer == nil {
		return nil, ErrNoKeyConfigured
	}
	tx, err := c.binding.Deposit(c.signer.TransactOpts(ctx, value), new(big.Int).SetUint64(lotteryID))
	if err != nil {
		return nil, fmt.Errorf("deposit(%d): %w", lotteryID, err)
	}
	return tx, nil
}

// RegisterUsername sends registerUsername for the signing account
func (c *Client) RegisterUsername(ctx context.Context, username string) (*types.Transaction, error) {
	if c.signer == nil {
		return nil, ErrNoKeyConfigured
	}
	tx, err := c.binding.RegisterUsername(c.signer.TransactOpts(ctx, nil), username)
	if err != nil {
		return nil, fmt.Errorf("registerUsername: %w", err)
	}
	return tx, nil
}

// WaitMined blocks until tx is mined or ctx is done
func (c *Client) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, c.backend, tx)
}

func toUint64s(values []*big.Int) ([]uint64, error) {
	ids := make([]uint64, 0, len(values))
	for _, v := range values {
		if !v.IsUint64() {
			return nil, fmt.Errorf("lottery id %s out of range", v)
		}
		ids = append(ids, v.Uint64())
	}
	return ids, nil
}
