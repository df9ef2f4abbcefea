package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Commands returns the slash commands the bot serves
func Commands() []*discordgo.ApplicationCommand {
	minID := float64(0)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "home",
			Description: "What FortuneBlock is and what is running right now",
		},
		{
			Name:        "lotteries",
			Description: "List the active lotteries",
		},
		{
			Name:        "lottery",
			Description: "Show a single lottery",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "id",
					Description: "Lottery ID",
					Required:    true,
					MinValue:    &minID,
				},
			},
		},
		{
			Name:        "profile",
			Description: "Show a lottery profile",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "address",
					Description: "Wallet address (defaults to your linked wallet)",
					Required:    false,
				},
			},
		},
		{
			Name:        "link",
			Description: "Link your wallet address to your Discord account",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "address",
					Description: "Wallet address",
					Required:    true,
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	for _, cmd := range Commands() {
		created, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, b.config.GuildID, cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
		b.registered = append(b.registered, created)
	}

	return nil
}
