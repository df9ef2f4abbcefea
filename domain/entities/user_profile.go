package entities

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// UserProfile is a read-through projection of a per-address contract record
type UserProfile struct {
	Address               common.Address `db:"address"`
	Username              string         `db:"username"`
	ParticipatedLotteries []uint64       `db:"participated_lotteries"`
	WonLotteries          []uint64       `db:"won_lotteries"`
	TotalWinnings         *big.Int       `db:"total_winnings"` // wei
	FetchedAt             time.Time      `db:"fetched_at"`
}

// IsRegistered returns true if the address has registered a username
func (p *UserProfile) IsRegistered() bool {
	return p.Username != ""
}

// ParticipationCount returns the number of lotteries the user has entered
func (p *UserProfile) ParticipationCount() int {
	return len(p.ParticipatedLotteries)
}

// WinCount returns the number of lotteries the user has won
func (p *UserProfile) WinCount() int {
	return len(p.WonLotteries)
}

// HasWon returns true if the user won the given lottery
func (p *UserProfile) HasWon(lotteryID uint64) bool {
	for _, id := range p.WonLotteries {
		if id == lotteryID {
			return true
		}
	}
	return false
}

// TotalWinningsOrZero returns total winnings, treating nil as zero
func (p *UserProfile) TotalWinningsOrZero() *big.Int {
	if p.TotalWinnings == nil {
		return new(big.Int)
	}
	return p.TotalWinnings
}
