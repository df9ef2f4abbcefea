package profile

import (
	"fmt"

	"fortuneblock/application/dto"
	"fortuneblock/bot/common"

	"github.com/bwmarrin/discordgo"
)

// CreateProfileEmbed creates the embed for a user profile
func CreateProfileEmbed(view dto.ProfileDTO) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's Profile", view.Username),
		Color:       common.ColorPrimary,
		Description: fmt.Sprintf("`%s`", view.Address),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:  "Participated Lotteries",
				Value: view.ParticipatedDisplay,
			},
			{
				Name:  "Won Lotteries",
				Value: view.WonDisplay,
			},
			{
				Name:   "Total Winnings",
				Value:  view.TotalWinnings,
				Inline: true,
			},
			{
				Name:   "Participation Count",
				Value:  fmt.Sprintf("%d", view.ParticipationCount),
				Inline: true,
			},
		},
	}

	if view.Stale {
		embed.Color = common.ColorWarning
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: "The chain is unreachable, showing the last known profile",
		}
	}

	return embed
}
