package bot

import (
	"fmt"

	"fortuneblock/application"
	"fortuneblock/bot/features/home"
	"fortuneblock/bot/features/lottery"
	"fortuneblock/bot/features/profile"
	"fortuneblock/domain/interfaces"
	"fortuneblock/infrastructure/observability"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token             string
	GuildID           string // register commands for one guild only; empty means global
	AnnounceChannelID string // where new lotteries are posted; empty disables announcements
	CurrencySymbol    string
}

// Bot manages the Discord session and all feature modules
type Bot struct {
	config  Config
	session *discordgo.Session

	home    *home.Feature
	lottery *lottery.Feature
	profile *profile.Feature

	registered []*discordgo.ApplicationCommand
}

// New creates a new bot instance with all features and opens the gateway connection
func New(config Config, lotteryService interfaces.LotteryService, profiles *application.ProfileLookup) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds

	bot := &Bot{
		config:  config,
		session: dg,
		home:    home.NewFeature(lotteryService, config.CurrencySymbol),
		lottery: lottery.NewFeature(dg, lotteryService, config.AnnounceChannelID, config.CurrencySymbol),
		profile: profile.NewFeature(profiles, config.CurrencySymbol),
	}

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.WithField("user", r.User.Username).Info("Discord session ready")
	})

	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

// GetLotteryAnnouncer returns the lottery feature as a LotteryAnnouncer, or nil
// when no announcement channel is configured
func (b *Bot) GetLotteryAnnouncer() application.LotteryAnnouncer {
	if b.config.AnnounceChannelID == "" {
		return nil
	}
	return b.lottery
}

// Close removes guild commands and closes the session
func (b *Bot) Close() error {
	if b.config.GuildID != "" {
		for _, cmd := range b.registered {
			if err := b.session.ApplicationCommandDelete(b.session.State.User.ID, b.config.GuildID, cmd.ID); err != nil {
				log.Warnf("Failed to delete command %s: %v", cmd.Name, err)
			}
		}
	}
	return b.session.Close()
}

// handleCommands routes slash commands to appropriate handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	observability.GetMetrics().RecordCommand(name)

	switch name {
	case "home":
		b.home.HandleCommand(s, i)
	case "lotteries", "lottery":
		b.lottery.HandleCommand(s, i)
	case "profile", "link":
		b.profile.HandleCommand(s, i)
	}
}
