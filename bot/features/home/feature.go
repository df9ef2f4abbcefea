package home

import (
	"context"
	"fmt"

	"fortuneblock/application/dto"
	"fortuneblock/bot/common"
	"fortuneblock/domain/interfaces"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature serves the /home command
type Feature struct {
	lotteryService interfaces.LotteryService
	symbol         string
}

// NewFeature creates a new home feature instance
func NewFeature(lotteryService interfaces.LotteryService, symbol string) *Feature {
	return &Feature{
		lotteryService: lotteryService,
		symbol:         symbol,
	}
}

// HandleCommand handles the /home command
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer home response: %v", err)
		return
	}

	// The landing view still renders when the contract is unreachable
	home := dto.NewStaticHomeDTO()
	lotteries, err := f.lotteryService.ListActiveLotteries(context.Background())
	if err != nil {
		log.WithError(err).Warn("Failed to fetch lotteries for home view")
	} else {
		home = dto.NewHomeDTO(lotteries, f.symbol)
	}

	embed := CreateHomeEmbed(home)
	if _, err := common.FollowUpWithEmbed(s, i, embed, nil, false); err != nil {
		log.Errorf("Failed to send home embed: %v", err)
	}
}

// CreateHomeEmbed creates the landing embed
func CreateHomeEmbed(home dto.HomeDTO) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       home.Title,
		Color:       common.ColorGold,
		Description: fmt.Sprintf("**%s**\n%s", home.Tagline, home.Description),
	}

	for _, feature := range home.Features {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  feature.Name,
			Value: feature.Description,
		})
	}

	if home.Stats != nil {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{
				Name:   "Active Lotteries",
				Value:  fmt.Sprintf("%d", home.Stats.ActiveLotteries),
				Inline: true,
			},
			&discordgo.MessageEmbedField{
				Name:   "Total Prize Pool",
				Value:  home.Stats.TotalPrizePool,
				Inline: true,
			},
		)
	}

	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: "Use /lotteries to see what is running and /profile to see your history",
	}

	return embed
}
