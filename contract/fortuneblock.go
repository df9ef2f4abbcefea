package contract

import (
	_ "embed"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

//go:embed FortuneBlock.abi.json
var fortuneBlockABI string

// ParseABI parses the embedded FortuneBlock ABI
func ParseABI() (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(fortuneBlockABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse FortuneBlock ABI: %w", err)
	}
	return parsed, nil
}

// LotteryDetails is the raw output of getLotteryDetails
type LotteryDetails struct {
	EndTime      *big.Int
	PrizePool    *big.Int
	Participants []common.Address
}

// UserProfile is the raw output of getUserProfile
type UserProfile struct {
	Username              string
	ParticipatedLotteries []*big.Int
	WonLotteries          []*big.Int
	TotalWinnings         *big.Int
}

// FortuneBlock is a binding around the deployed FortuneBlock contract
type FortuneBlock struct {
	address  common.Address
	contract *bind.BoundContract
}

// NewFortuneBlock binds a FortuneBlock contract at address. The transactor may
// be nil for read-only use.
func NewFortuneBlock(address common.Address, caller bind.ContractCaller, transactor bind.ContractTransactor) (*FortuneBlock, error) {
	parsed, err := ParseABI()
	if err != nil {
		return nil, err
	}
	return &FortuneBlock{
		address:  address,
		contract: bind.NewBoundContract(address, parsed, caller, transactor, nil),
	}, nil
}

// Address returns the bound contract address
func (f *FortuneBlock) Address() common.Address {
	return f.address
}

// GetActiveLotteries calls getActiveLotteries()
func (f *FortuneBlock) GetActiveLotteries(opts *bind.CallOpts) ([]*big.Int, error) {
	var out []interface{}
	if err := f.contract.Call(opts, &out, "getActiveLotteries"); err != nil {
		return nil, err
	}
	return *abi.ConvertType(out[0], new([]*big.Int)).(*[]*big.Int), nil
}

// GetLotteryDetails calls getLotteryDetails(uint256)
func (f *FortuneBlock) GetLotteryDetails(opts *bind.CallOpts, lotteryID *big.Int) (LotteryDetails, error) {
	var out []interface{}
	if err := f.contract.Call(opts, &out, "getLotteryDetails", lotteryID); err != nil {
		return LotteryDetails{}, err
	}

	return LotteryDetails{
		EndTime:      *abi.ConvertType(out[0], new(*big.Int)).(**big.Int),
		PrizePool:    *abi.ConvertType(out[1], new(*big.Int)).(**big.Int),
		Participants: *abi.ConvertType(out[2], new([]common.Address)).(*[]common.Address),
	}, nil
}

// GetUserProfile calls getUserProfile(address)
func (f *FortuneBlock) GetUserProfile(opts *bind.CallOpts, user common.Address) (UserProfile, error) {
	var out []interface{}
	if err := f.contract.Call(opts, &out, "getUserProfile", user); err != nil {
		return UserProfile{}, err
	}

	return UserProfile{
		Username:              *abi.ConvertType(out[0], new(string)).(*string),
		ParticipatedLotteries: *abi.ConvertType(out[1], new([]*big.Int)).(*[]*big.Int),
		WonLotteries:          *abi.ConvertType(out[2], new([]*big.Int)).(*[]*big.Int),
		TotalWinnings:         *abi.ConvertType(out[3], new(*big.Int)).(**big.Int),
	}, nil
}

// Deposit sends deposit(uint256) with opts.Value attached
func (f *FortuneBlock) Deposit(opts *bind.TransactOpts, lotteryID *big.Int) (*types.Transaction, error) {
	return f.contract.Transact(opts, "deposit", lotteryID)
}

// RegisterUsername sends registerUsername(string)
func (f *FortuneBlock) RegisterUsername(opts *bind.TransactOpts, username string) (*types.Transaction, error) {
	return f.contract.Transact(opts, "registerUsername", username)
}
