package testutil

import (
	"math/big"
	"time"

	"fortuneblock/domain/entities"

	"github.com/ethereum/go-ethereum/common"
)

// Ether is 10^18 wei
var Ether = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// CreateTestLottery creates an active lottery snapshot with sensible defaults
func CreateTestLottery(id uint64, participants ...common.Address) *entities.Lottery {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &entities.Lottery{
		ID:           id,
		EndTime:      now.Add(24 * time.Hour),
		PrizePool:    new(big.Int).Mul(big.NewInt(2), Ether),
		Participants: participants,
		Active:       true,
		FetchedAt:    now,
	}
}

// CreateTestProfile creates a registered profile
func CreateTestProfile(addr common.Address, username string) *entities.UserProfile {
	return &entities.UserProfile{
		Address:               addr,
		Username:              username,
		ParticipatedLotteries: []uint64{1, 2, 3},
		WonLotteries:          []uint64{2},
		TotalWinnings:         new(big.Int).Mul(big.NewInt(5), Ether),
		FetchedAt:             time.Now().UTC().Truncate(time.Microsecond),
	}
}

// CreateTestDeposit creates a pending deposit transaction
func CreateTestDeposit(hash common.Hash, from common.Address, lotteryID uint64) *entities.ContractTransaction {
	return &entities.ContractTransaction{
		Kind:      entities.TransactionKindDeposit,
		TxHash:    hash,
		From:      from,
		LotteryID: &lotteryID,
		Amount:    new(big.Int).Set(Ether),
		Status:    entities.TransactionStatusPending,
	}
}

// CreateTestRegistration creates a pending username registration transaction
func CreateTestRegistration(hash common.Hash, from common.Address, username string) *entities.ContractTransaction {
	return &entities.ContractTransaction{
		Kind:     entities.TransactionKindRegisterUsername,
		TxHash:   hash,
		From:     from,
		Username: username,
		Status:   entities.TransactionStatusPending,
	}
}
