package application

import (
	"context"

	"fortuneblock/domain/entities"
)

// LotteryAnnouncer posts lottery state to a chat channel
type LotteryAnnouncer interface {
	// AnnounceLottery posts a new lottery message and returns where it was posted
	AnnounceLottery(ctx context.Context, lottery *entities.Lottery) (channelID, messageID int64, err error)

	// UpdateLotteryAnnouncement edits the tracked message of a lottery
	UpdateLotteryAnnouncement(ctx context.Context, lottery *entities.Lottery) error

	// AnnounceLotteryClosed marks the tracked message of a lottery as closed
	AnnounceLotteryClosed(ctx context.Context, lottery *entities.Lottery) error
}

// ActiveLotteryGauge receives the number of active lotteries
type ActiveLotteryGauge interface {
	SetActiveLotteries(count int)
}
