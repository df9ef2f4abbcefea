package lottery

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"fortuneblock/application"
	"fortuneblock/application/dto"
	"fortuneblock/bot/common"
	"fortuneblock/domain/entities"
	"fortuneblock/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// messageSender is the part of the Discord session the announcer needs
type messageSender interface {
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Feature represents the lottery feature
type Feature struct {
	sender         messageSender
	lotteryService interfaces.LotteryService
	channelID      string
	symbol         string
	board          *BoardImageGenerator
	now            func() time.Time
}

var _ application.LotteryAnnouncer = (*Feature)(nil)

// NewFeature creates a new lottery feature instance. channelID is where new
// lotteries are announced.
func NewFeature(session *discordgo.Session, lotteryService interfaces.LotteryService, channelID, symbol string) *Feature {
	return newFeature(session, lotteryService, channelID, symbol)
}

func newFeature(sender messageSender, lotteryService interfaces.LotteryService, channelID, symbol string) *Feature {
	return &Feature{
		sender:         sender,
		lotteryService: lotteryService,
		channelID:      channelID,
		symbol:         symbol,
		board:          NewBoardImageGenerator(),
		now:            time.Now,
	}
}

// HandleCommand handles the /lotteries and /lottery commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "lotteries":
		f.handleList(s, i)
	case "lottery":
		f.handleDetail(s, i)
	}
}

func (f *Feature) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer lotteries response: %v", err)
		return
	}

	ctx := context.Background()
	lotteries, err := f.lotteryService.ListActiveLotteries(ctx)
	if err != nil {
		common.HandleError(s, i, common.WrapError(err, common.MsgFetchLotteries, "Failed to fetch lotteries"), true)
		return
	}

	views := dto.NewLotteryDTOs(lotteries, f.now(), time.UTC, f.symbol)
	embed := CreateLotteriesEmbed(views)

	image, err := f.board.Generate(views)
	if err != nil {
		log.WithError(err).Warn("Failed to render lottery board, sending embed only")
		if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
			log.Errorf("Failed to send lotteries embed: %v", err)
		}
		return
	}

	embed.Image = &discordgo.MessageEmbedImage{URL: "attachment://" + common.BoardImageName}
	if _, err := common.FollowUpWithFile(s, i, embed, common.BoardImageName, "image/png", image); err != nil {
		log.Errorf("Failed to send lotteries board: %v", err)
	}
}

func (f *Feature) handleDetail(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var lotteryID uint64
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "id" {
			value := opt.IntValue()
			if value < 0 {
				common.RespondWithError(s, i, "Lottery ID must be positive")
				return
			}
			lotteryID = uint64(value)
		}
	}

	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer lottery response: %v", err)
		return
	}

	lottery, err := f.lotteryService.GetLottery(context.Background(), lotteryID)
	if err != nil {
		botErr := common.WrapError(err, common.MsgFetchLotteries, "Failed to fetch lottery")
		botErr.Context = log.Fields{"lottery_id": lotteryID}
		common.HandleError(s, i, botErr, true)
		return
	}

	embed := CreateLotteryEmbed(dto.NewLotteryDTO(lottery, f.now(), time.UTC, f.symbol))
	if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Failed to send lottery embed: %v", err)
	}
}

// AnnounceLottery posts a new lottery to the announcement channel (implements LotteryAnnouncer)
func (f *Feature) AnnounceLottery(ctx context.Context, lottery *entities.Lottery) (int64, int64, error) {
	embed := CreateLotteryEmbed(dto.NewLotteryDTO(lottery, f.now(), time.UTC, f.symbol))

	msg, err := f.sender.ChannelMessageSendComplex(f.channelID, &discordgo.MessageSend{
		Embeds: []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to post lottery %d: %w", lottery.ID, err)
	}

	channelID, err := strconv.ParseInt(msg.ChannelID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse channel ID %q: %w", msg.ChannelID, err)
	}
	messageID, err := strconv.ParseInt(msg.ID, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse message ID %q: %w", msg.ID, err)
	}

	log.WithFields(log.Fields{
		"lottery_id": lottery.ID,
		"channel_id": channelID,
		"message_id": messageID,
	}).Info("Announced new lottery")

	return channelID, messageID, nil
}

// UpdateLotteryAnnouncement edits the tracked lottery message (implements LotteryAnnouncer)
func (f *Feature) UpdateLotteryAnnouncement(ctx context.Context, lottery *entities.Lottery) error {
	embed := CreateLotteryEmbed(dto.NewLotteryDTO(lottery, f.now(), time.UTC, f.symbol))
	return f.editMessage(ctx, lottery, embed)
}

// AnnounceLotteryClosed marks the tracked lottery message as closed (implements LotteryAnnouncer)
func (f *Feature) AnnounceLotteryClosed(ctx context.Context, lottery *entities.Lottery) error {
	embed := CreateClosedLotteryEmbed(dto.NewLotteryDTO(lottery, f.now(), time.UTC, f.symbol))
	return f.editMessage(ctx, lottery, embed)
}

func (f *Feature) editMessage(ctx context.Context, lottery *entities.Lottery, embed *discordgo.MessageEmbed) error {
	if !lottery.HasMessage() {
		log.Warnf("Lottery %d has no message to update", lottery.ID)
		return nil
	}

	_, err := f.sender.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: strconv.FormatInt(*lottery.ChannelID, 10),
		ID:      strconv.FormatInt(*lottery.MessageID, 10),
		Embeds:  &[]*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to update lottery %d message: %w", lottery.ID, err)
	}
	return nil
}
