package testhelpers

import (
	"context"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/interfaces"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

// MockLotteryService is a mock implementation of LotteryService
type MockLotteryService struct {
	mock.Mock
}

func (m *MockLotteryService) ListActiveLotteries(ctx context.Context) ([]*entities.Lottery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Lottery), args.Error(1)
}

func (m *MockLotteryService) GetLottery(ctx context.Context, lotteryID uint64) (*entities.Lottery, error) {
	args := m.Called(ctx, lotteryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Lottery), args.Error(1)
}

func (m *MockLotteryService) Deposit(ctx context.Context, lotteryID uint64, amount string) (*interfaces.DepositResult, error) {
	args := m.Called(ctx, lotteryID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.DepositResult), args.Error(1)
}

// MockProfileService is a mock implementation of ProfileService
type MockProfileService struct {
	mock.Mock
}

func (m *MockProfileService) GetProfile(ctx context.Context, addr common.Address) (*entities.UserProfile, error) {
	args := m.Called(ctx, addr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockProfileService) GetAccountProfile(ctx context.Context) (*entities.UserProfile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserProfile), args.Error(1)
}

func (m *MockProfileService) RegisterUsername(ctx context.Context, username string) (*interfaces.RegistrationResult, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.RegistrationResult), args.Error(1)
}
