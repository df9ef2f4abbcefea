package testhelpers

import (
	"context"
	"math/big"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/events"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/mock"
)

// MockLotteryContract is a mock implementation of LotteryContract
type MockLotteryContract struct {
	mock.Mock
}

func (m *MockLotteryContract) GetActiveLotteries(ctx context.Context) ([]uint64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uint64), args.Error(1)
}

func (m *MockLotteryContract) GetLotteryDetails(ctx context.Context, lotteryID uint64) (*entities.Lottery, error) {
	args := m.Called(ctx, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lottery), args.Error(1)
}

func (m *MockLotteryContract) GetUserProfile(ctx context.Context, addr common.Address) (*entities.UserProfile, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockLotteryContract) Deposit(ctx context.Context, lotteryID uint64, value *big.Int) (*types.Transaction, error) {
	args := m.Called(ctx, lotteryID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Transaction), args.Error(1)
}

func (m *MockLotteryContract) RegisterUsername(ctx context.Context, username string) (*types.Transaction, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Transaction), args.Error(1)
}

func (m *MockLotteryContract) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Receipt), args.Error(1)
}

func (m *MockLotteryContract) Account() (common.Address, bool) {
	args := m.Called()
	return args.Get(0).(common.Address), args.Bool(1)
}

// MockLotterySnapshotRepository is a mock implementation of LotterySnapshotRepository
type MockLotterySnapshotRepository struct {
	mock.Mock
}

func (m *MockLotterySnapshotRepository) GetByID(ctx context.Context, lotteryID uint64) (*entities.Lottery, error) {
	args := m.Called(ctx, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lottery), args.Error(1)
}

func (m *MockLotterySnapshotRepository) Upsert(ctx context.Context, lottery *entities.Lottery) error {
	args := m.Called(ctx, lottery)
	return args.Error(0)
}

func (m *MockLotterySnapshotRepository) ListActive(ctx context.Context) ([]*entities.Lottery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Lottery), args.Error(1)
}

func (m *MockLotterySnapshotRepository) MarkClosed(ctx context.Context, activeIDs []uint64) ([]*entities.Lottery, error) {
	args := m.Called(ctx, activeIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Lottery), args.Error(1)
}

func (m *MockLotterySnapshotRepository) SetMessage(ctx context.Context, lotteryID uint64, channelID, messageID int64) error {
	args := m.Called(ctx, lotteryID, channelID, messageID)
	return args.Error(0)
}

// MockProfileSnapshotRepository is a mock implementation of ProfileSnapshotRepository
type MockProfileSnapshotRepository struct {
	mock.Mock
}

func (m *MockProfileSnapshotRepository) GetByAddress(ctx context.Context, addr common.Address) (*entities.UserProfile, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockProfileSnapshotRepository) Upsert(ctx context.Context, profile *entities.UserProfile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// MockContractTransactionRepository is a mock implementation of ContractTransactionRepository
type MockContractTransactionRepository struct {
	mock.Mock
}

func (m *MockContractTransactionRepository) Record(ctx context.Context, tx *entities.ContractTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *MockContractTransactionRepository) GetByHash(ctx context.Context, hash common.Hash) (*entities.ContractTransaction, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.ContractTransaction), args.Error(1)
}

func (m *MockContractTransactionRepository) ListByAddress(ctx context.Context, addr common.Address, limit int) ([]*entities.ContractTransaction, error) {
	args := m.Called(ctx, addr, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.ContractTransaction), args.Error(1)
}

// MockWalletLinkRepository is a mock implementation of WalletLinkRepository
type MockWalletLinkRepository struct {
	mock.Mock
}

func (m *MockWalletLinkRepository) Link(ctx context.Context, discordID int64, addr common.Address) (*entities.WalletLink, error) {
	args := m.Called(ctx, discordID, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletLink), args.Error(1)
}

func (m *MockWalletLinkRepository) GetByDiscordID(ctx context.Context, discordID int64) (*entities.WalletLink, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.WalletLink), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
