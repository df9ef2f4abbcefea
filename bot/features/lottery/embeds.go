package lottery

import (
	"fmt"
	"strings"

	"fortuneblock/application/dto"
	"fortuneblock/bot/common"

	"github.com/bwmarrin/discordgo"
)

// CreateLotteryEmbed creates the embed for a single lottery
func CreateLotteryEmbed(view dto.LotteryDTO) *discordgo.MessageEmbed {
	color := common.ColorInfo
	status := fmt.Sprintf("Ends %s", common.FormatDiscordTimestamp(view.EndTime, "R"))
	if view.Ended {
		color = common.ColorWarning
		status = "Ended, waiting for the draw"
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Lottery #%d - %s", view.ID, view.PrizePool),
		Color:       color,
		Description: status,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "End Time",
				Value:  fmt.Sprintf("%s %s", common.FormatDiscordTimestamp(view.EndTime, "d"), common.FormatDiscordTimestamp(view.EndTime, "t")),
				Inline: true,
			},
			{
				Name:   "Prize Pool",
				Value:  view.PrizePool,
				Inline: true,
			},
			{
				Name:   "Participants",
				Value:  fmt.Sprintf("%d", view.ParticipantCount),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Deposit with: fortuneblock deposit %d <amount>", view.ID),
		},
	}
}

// CreateClosedLotteryEmbed creates the embed shown once a lottery is no longer active
func CreateClosedLotteryEmbed(view dto.LotteryDTO) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Lottery #%d - Closed", view.ID),
		Color:       common.ColorDanger,
		Description: fmt.Sprintf("Final prize pool **%s** across %s.", view.PrizePool, common.FormatCount(view.ParticipantCount, "participant", "participants")),
	}
}

// CreateLotteriesEmbed creates the active lotteries overview. Only the first
// MaxLotteryFields lotteries get their own field.
func CreateLotteriesEmbed(views []dto.LotteryDTO) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: "Active Lotteries",
		Color: common.ColorPrimary,
	}

	if len(views) == 0 {
		embed.Description = "There are no active lotteries right now."
		return embed
	}

	embed.Description = fmt.Sprintf("%s running.", common.FormatCount(len(views), "lottery", "lotteries"))

	shown := views
	if len(shown) > common.MaxLotteryFields {
		shown = shown[:common.MaxLotteryFields]
	}
	for _, view := range shown {
		lines := []string{
			fmt.Sprintf("End Time: %s", view.EndTimeDisplay),
			fmt.Sprintf("Prize Pool: %s", view.PrizePool),
			fmt.Sprintf("Participants: %d", view.ParticipantCount),
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Lottery #%d", view.ID),
			Value: strings.Join(lines, "\n"),
		})
	}
	if hidden := len(views) - len(shown); hidden > 0 {
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("...and %d more", hidden),
		}
	}

	return embed
}
