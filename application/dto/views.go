package dto

import (
	"math/big"
	"time"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/utils"

	"github.com/ethereum/go-ethereum/common"
)

// FeatureDTO is one selling point on the home view
type FeatureDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HomeFeatures are the fixed selling points shown on the home view
var HomeFeatures = []FeatureDTO{
	{
		Name:        "Decentralized Lottery",
		Description: "Participate in fair and transparent lotteries powered by blockchain technology.",
	},
	{
		Name:        "Instant Payouts",
		Description: "Winners receive their prizes immediately after the lottery ends.",
	},
	{
		Name:        "Secure and Trustless",
		Description: "Smart contracts ensure the integrity of every lottery draw.",
	},
}

// HomeStatsDTO holds the live numbers on the home view
type HomeStatsDTO struct {
	ActiveLotteries int    `json:"active_lotteries"`
	TotalPrizePool  string `json:"total_prize_pool"`
}

// HomeDTO is the landing view. Stats is nil when the contract could not be read.
type HomeDTO struct {
	Title       string        `json:"title"`
	Tagline     string        `json:"tagline"`
	Description string        `json:"description"`
	Features    []FeatureDTO  `json:"features"`
	Stats       *HomeStatsDTO `json:"stats,omitempty"`
}

// LotteryDTO is a lottery as displayed to users
type LotteryDTO struct {
	ID               uint64    `json:"id"`
	EndTime          time.Time `json:"end_time"`
	EndTimeDisplay   string    `json:"end_time_display"`
	TimeRemaining    string    `json:"time_remaining"`
	Ended            bool      `json:"ended"`
	PrizePoolWei     string    `json:"prize_pool_wei"`
	PrizePool        string    `json:"prize_pool"`
	ParticipantCount int       `json:"participant_count"`
	Joined           *bool     `json:"joined,omitempty"`
}

// ProfileDTO is a user profile as displayed to users
type ProfileDTO struct {
	Address               string             `json:"address"`
	Username              string             `json:"username"`
	ParticipatedLotteries []uint64           `json:"participated_lotteries"`
	WonLotteries          []uint64           `json:"won_lotteries"`
	ParticipatedDisplay   string             `json:"participated_display"`
	WonDisplay            string             `json:"won_display"`
	ParticipationCount    int                `json:"participation_count"`
	WinCount              int                `json:"win_count"`
	Participations        []ParticipationDTO `json:"participations"`
	TotalWinningsWei      string             `json:"total_winnings_wei"`
	TotalWinnings         string             `json:"total_winnings"`
	Stale                 bool               `json:"stale,omitempty"`
}

// ParticipationDTO is one lottery a profile took part in
type ParticipationDTO struct {
	LotteryID uint64 `json:"lottery_id"`
	Won       bool   `json:"won"`
}

// NewHomeDTO builds the home view from the currently active lotteries
func NewHomeDTO(lotteries []*entities.Lottery, symbol string) HomeDTO {
	total := new(big.Int)
	for _, lottery := range lotteries {
		total.Add(total, lottery.PrizePoolOrZero())
	}

	home := NewStaticHomeDTO()
	home.Stats = &HomeStatsDTO{
		ActiveLotteries: len(lotteries),
		TotalPrizePool:  utils.FormatAmount(total, symbol),
	}
	return home
}

// NewStaticHomeDTO builds the home view without live stats
func NewStaticHomeDTO() HomeDTO {
	return HomeDTO{
		Title:       "FortuneBlock",
		Tagline:     "A new era of digital lotteries",
		Description: "Join the revolution of decentralized lotteries and experience the future of fair gaming.",
		Features:    HomeFeatures,
	}
}

// NewLotteryDTO converts a lottery for display. loc controls the end time display.
func NewLotteryDTO(lottery *entities.Lottery, now time.Time, loc *time.Location, symbol string) LotteryDTO {
	return LotteryDTO{
		ID:               lottery.ID,
		EndTime:          lottery.EndTime,
		EndTimeDisplay:   utils.FormatEndTime(lottery.EndTime, loc),
		TimeRemaining:    utils.FormatTimeRemaining(lottery.EndTime, now),
		Ended:            lottery.HasEnded(now),
		PrizePoolWei:     lottery.PrizePoolOrZero().String(),
		PrizePool:        utils.FormatAmount(lottery.PrizePoolOrZero(), symbol),
		ParticipantCount: lottery.ParticipantCount(),
	}
}

// WithParticipant records whether addr has deposited into the lottery
func (v LotteryDTO) WithParticipant(lottery *entities.Lottery, addr common.Address) LotteryDTO {
	joined := lottery.HasParticipant(addr)
	v.Joined = &joined
	return v
}

// NewLotteryDTOs converts a list of lotteries, keeping their order
func NewLotteryDTOs(lotteries []*entities.Lottery, now time.Time, loc *time.Location, symbol string) []LotteryDTO {
	views := make([]LotteryDTO, 0, len(lotteries))
	for _, lottery := range lotteries {
		views = append(views, NewLotteryDTO(lottery, now, loc, symbol))
	}
	return views
}

// NewProfileDTO converts a profile for display
func NewProfileDTO(profile *entities.UserProfile, symbol string) ProfileDTO {
	participated := profile.ParticipatedLotteries
	if participated == nil {
		participated = []uint64{}
	}
	won := profile.WonLotteries
	if won == nil {
		won = []uint64{}
	}

	participations := make([]ParticipationDTO, 0, len(participated))
	for _, id := range participated {
		participations = append(participations, ParticipationDTO{LotteryID: id, Won: profile.HasWon(id)})
	}

	return ProfileDTO{
		Address:               profile.Address.Hex(),
		Username:              profile.Username,
		ParticipatedLotteries: participated,
		WonLotteries:          won,
		ParticipatedDisplay:   utils.FormatIDList(participated),
		WonDisplay:            utils.FormatIDList(won),
		ParticipationCount:    profile.ParticipationCount(),
		WinCount:              profile.WinCount(),
		Participations:        participations,
		TotalWinningsWei:      profile.TotalWinningsOrZero().String(),
		TotalWinnings:         utils.FormatAmount(profile.TotalWinningsOrZero(), symbol),
	}
}
