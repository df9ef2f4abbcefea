package lottery

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"math/big"
	"testing"
	"time"

	"fortuneblock/application/dto"
	"fortuneblock/domain/entities"

	"github.com/bwmarrin/discordgo"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent    []*discordgo.MessageSend
	edits   []*discordgo.MessageEdit
	channel string
	err     error
}

func (f *fakeSender) ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.channel = channelID
	f.sent = append(f.sent, data)
	return &discordgo.Message{ID: "987654321", ChannelID: channelID}, nil
}

func (f *fakeSender) ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.edits = append(f.edits, m)
	return &discordgo.Message{ID: m.ID, ChannelID: m.Channel}, nil
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestFeature(sender *fakeSender) *Feature {
	f := newFeature(sender, nil, "123456", "GAS")
	f.now = func() time.Time { return fixedNow }
	return f
}

func testLottery(id uint64) *entities.Lottery {
	pool, _ := new(big.Int).SetString("1500000000000000000", 10)
	return &entities.Lottery{
		ID:           id,
		EndTime:      fixedNow.Add(3 * time.Hour),
		PrizePool:    pool,
		Participants: []common.Address{{1}, {2}, {3}},
		Active:       true,
	}
}

func TestFeature_AnnounceLottery(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	channelID, messageID, err := newTestFeature(sender).AnnounceLottery(context.Background(), testLottery(4))
	require.NoError(t, err)

	assert.Equal(t, int64(123456), channelID)
	assert.Equal(t, int64(987654321), messageID)
	assert.Equal(t, "123456", sender.channel)
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Lottery #4 - 1.5 GAS", sender.sent[0].Embeds[0].Title)
}

func TestFeature_AnnounceLottery_Error(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{err: errors.New("missing access")}
	_, _, err := newTestFeature(sender).AnnounceLottery(context.Background(), testLottery(4))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lottery 4")
}

func TestFeature_UpdateAndClose(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	feature := newTestFeature(sender)

	lottery := testLottery(4)
	lottery.SetMessage(111, 222)

	require.NoError(t, feature.UpdateLotteryAnnouncement(context.Background(), lottery))
	require.NoError(t, feature.AnnounceLotteryClosed(context.Background(), lottery))

	require.Len(t, sender.edits, 2)
	assert.Equal(t, "111", sender.edits[0].Channel)
	assert.Equal(t, "222", sender.edits[0].ID)
	assert.Equal(t, "Lottery #4 - 1.5 GAS", (*sender.edits[0].Embeds)[0].Title)
	assert.Equal(t, "Lottery #4 - Closed", (*sender.edits[1].Embeds)[0].Title)
}

func TestFeature_UpdateWithoutMessage(t *testing.T) {
	t.Parallel()

	sender := &fakeSender{}
	require.NoError(t, newTestFeature(sender).UpdateLotteryAnnouncement(context.Background(), testLottery(4)))
	assert.Empty(t, sender.edits)
}

func TestCreateLotteriesEmbed(t *testing.T) {
	t.Parallel()

	empty := CreateLotteriesEmbed(nil)
	assert.Equal(t, "There are no active lotteries right now.", empty.Description)
	assert.Empty(t, empty.Fields)

	views := make([]dto.LotteryDTO, 0, 12)
	for id := uint64(1); id <= 12; id++ {
		views = append(views, dto.NewLotteryDTO(testLottery(id), fixedNow, time.UTC, "GAS"))
	}

	embed := CreateLotteriesEmbed(views)
	assert.Equal(t, "12 lotteries running.", embed.Description)
	assert.Len(t, embed.Fields, 10)
	assert.Equal(t, "Lottery #1", embed.Fields[0].Name)
	assert.Contains(t, embed.Fields[0].Value, "Prize Pool: 1.5 GAS")
	assert.Contains(t, embed.Fields[0].Value, "Participants: 3")
	require.NotNil(t, embed.Footer)
	assert.Equal(t, "...and 2 more", embed.Footer.Text)
}

func TestCreateLotteryEmbed_Ended(t *testing.T) {
	t.Parallel()

	lottery := testLottery(2)
	lottery.EndTime = fixedNow.Add(-time.Minute)

	embed := CreateLotteryEmbed(dto.NewLotteryDTO(lottery, fixedNow, time.UTC, "GAS"))
	assert.Equal(t, "Ended, waiting for the draw", embed.Description)
}

func TestBoardImageGenerator_Generate(t *testing.T) {
	t.Parallel()

	generator := NewBoardImageGenerator()

	tests := []struct {
		name       string
		count      int
		wantHeight int
	}{
		{name: "empty board", count: 0, wantHeight: 120},
		{name: "single row keeps min height", count: 1, wantHeight: 120},
		{name: "two rows exceed min height", count: 2, wantHeight: 25 + 30 + 2*26 + 15},
		{name: "many rows", count: 8, wantHeight: 25 + 30 + 8*26 + 15},
		{name: "capped rows", count: 40, wantHeight: 25 + 30 + 15*26 + 15},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			views := make([]dto.LotteryDTO, 0, tt.count)
			for id := 1; id <= tt.count; id++ {
				views = append(views, dto.NewLotteryDTO(testLottery(uint64(id)), fixedNow, time.UTC, "GAS"))
			}

			data, err := generator.Generate(views)
			require.NoError(t, err)

			img, err := png.Decode(bytes.NewReader(data))
			require.NoError(t, err)
			assert.Equal(t, 420, img.Bounds().Dx())
			assert.Equal(t, tt.wantHeight, img.Bounds().Dy())
		})
	}
}

func TestLargestPool(t *testing.T) {
	t.Parallel()

	views := []dto.LotteryDTO{
		{PrizePoolWei: "10"},
		{PrizePoolWei: "300"},
		{PrizePoolWei: "not-a-number"},
		{PrizePoolWei: "200"},
	}
	assert.Equal(t, 1, largestPool(views))
	assert.Equal(t, -1, largestPool([]dto.LotteryDTO{{PrizePoolWei: "0"}}))
}
