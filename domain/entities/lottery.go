package entities

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Lottery is a read-through projection of a lottery tracked by the contract
type Lottery struct {
	ID           uint64           `db:"lottery_id"`
	EndTime      time.Time        `db:"end_time"`
	PrizePool    *big.Int         `db:"prize_pool"` // wei
	Participants []common.Address `db:"participants"`
	Active       bool             `db:"active"`
	FetchedAt    time.Time        `db:"fetched_at"`
	MessageID    *int64           `db:"message_id"` // Discord message ID for the lottery embed
	ChannelID    *int64           `db:"channel_id"` // Discord channel ID
}

// ParticipantCount returns the number of participants in the lottery
func (l *Lottery) ParticipantCount() int {
	return len(l.Participants)
}

// HasEnded returns true if the lottery end time has passed
func (l *Lottery) HasEnded(now time.Time) bool {
	return !now.Before(l.EndTime)
}

// TimeRemaining returns how long until the lottery ends, zero once ended
func (l *Lottery) TimeRemaining(now time.Time) time.Duration {
	if l.HasEnded(now) {
		return 0
	}
	return l.EndTime.Sub(now)
}

// HasParticipant returns true if the address has deposited into the lottery
func (l *Lottery) HasParticipant(addr common.Address) bool {
	for _, p := range l.Participants {
		if p == addr {
			return true
		}
	}
	return false
}

// PrizePoolOrZero returns the prize pool, treating nil as zero
func (l *Lottery) PrizePoolOrZero() *big.Int {
	if l.PrizePool == nil {
		return new(big.Int)
	}
	return l.PrizePool
}

// SetMessage sets the Discord message tracking info
func (l *Lottery) SetMessage(channelID, messageID int64) {
	l.ChannelID = &channelID
	l.MessageID = &messageID
}

// HasMessage returns true if the lottery has a tracked Discord message
func (l *Lottery) HasMessage() bool {
	return l.MessageID != nil && l.ChannelID != nil
}

// Differs reports whether the on-chain fields of two snapshots disagree.
// Message tracking and fetch time are ignored.
func (l *Lottery) Differs(other *Lottery) bool {
	if other == nil {
		return true
	}
	if l.ID != other.ID || !l.EndTime.Equal(other.EndTime) {
		return true
	}
	if l.PrizePoolOrZero().Cmp(other.PrizePoolOrZero()) != 0 {
		return true
	}
	if len(l.Participants) != len(other.Participants) {
		return true
	}
	for i := range l.Participants {
		if l.Participants[i] != other.Participants[i] {
			return true
		}
	}
	return false
}
