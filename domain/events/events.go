package events

import (
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeLotteryOpened      EventType = "lottery_opened"
	EventTypeLotteryUpdated     EventType = "lottery_updated"
	EventTypeLotteryClosed      EventType = "lottery_closed"
	EventTypeDepositConfirmed   EventType = "deposit_confirmed"
	EventTypeUsernameRegistered EventType = "username_registered"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// LotteryOpenedEvent is raised the first time an active lottery is seen
type LotteryOpenedEvent struct {
	LotteryID        uint64    `json:"lottery_id"`
	EndTime          time.Time `json:"end_time"`
	PrizePool        *big.Int  `json:"prize_pool"`
	ParticipantCount int       `json:"participant_count"`
}

func (e LotteryOpenedEvent) Type() EventType {
	return EventTypeLotteryOpened
}

// LotteryUpdatedEvent is raised when a lottery's prize pool or participants change
type LotteryUpdatedEvent struct {
	LotteryID           uint64   `json:"lottery_id"`
	OldPrizePool        *big.Int `json:"old_prize_pool"`
	NewPrizePool        *big.Int `json:"new_prize_pool"`
	OldParticipantCount int      `json:"old_participant_count"`
	NewParticipantCount int      `json:"new_participant_count"`
}

func (e LotteryUpdatedEvent) Type() EventType {
	return EventTypeLotteryUpdated
}

// LotteryClosedEvent is raised when a lottery is no longer reported as active
type LotteryClosedEvent struct {
	LotteryID        uint64   `json:"lottery_id"`
	FinalPrizePool   *big.Int `json:"final_prize_pool"`
	ParticipantCount int      `json:"participant_count"`
}

func (e LotteryClosedEvent) Type() EventType {
	return EventTypeLotteryClosed
}

// DepositConfirmedEvent is raised after a deposit transaction is mined
type DepositConfirmedEvent struct {
	LotteryID   uint64         `json:"lottery_id"`
	Depositor   common.Address `json:"depositor"`
	Amount      *big.Int       `json:"amount"`
	TxHash      common.Hash    `json:"tx_hash"`
	BlockNumber uint64         `json:"block_number"`
	Success     bool           `json:"success"`
}

func (e DepositConfirmedEvent) Type() EventType {
	return EventTypeDepositConfirmed
}

// UsernameRegisteredEvent is raised after a registration transaction is mined
type UsernameRegisteredEvent struct {
	Address     common.Address `json:"address"`
	Username    string         `json:"username"`
	TxHash      common.Hash    `json:"tx_hash"`
	BlockNumber uint64         `json:"block_number"`
	Success     bool           `json:"success"`
}

func (e UsernameRegisteredEvent) Type() EventType {
	return EventTypeUsernameRegistered
}
