package profile

import (
	"context"
	"strconv"
	"strings"

	"fortuneblock/application/dto"
	"fortuneblock/bot/common"
	"fortuneblock/domain/entities"

	"github.com/bwmarrin/discordgo"
	ethcommon "github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
)

// profileReader is implemented by application.ProfileLookup
type profileReader interface {
	Lookup(ctx context.Context, addr ethcommon.Address) (*entities.UserProfile, bool, error)
	WalletFor(ctx context.Context, discordID int64) (ethcommon.Address, error)
	LinkWallet(ctx context.Context, discordID int64, addr ethcommon.Address) (*entities.WalletLink, error)
}

// Feature serves the /profile and /link commands
type Feature struct {
	profiles profileReader
	symbol   string
}

// NewFeature creates a new profile feature instance
func NewFeature(profiles profileReader, symbol string) *Feature {
	return &Feature{
		profiles: profiles,
		symbol:   symbol,
	}
}

// HandleCommand handles the /profile and /link commands
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "profile":
		f.handleProfile(s, i)
	case "link":
		f.handleLink(s, i)
	}
}

func (f *Feature) handleProfile(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := common.DeferResponse(s, i, false); err != nil {
		log.Errorf("Failed to defer profile response: %v", err)
		return
	}

	ctx := context.Background()
	addr, err := f.resolveAddress(ctx, i)
	if err != nil {
		common.HandleError(s, i, common.WrapError(err, common.MsgFetchProfile, "Failed to resolve profile address"), true)
		return
	}

	profile, stale, err := f.profiles.Lookup(ctx, addr)
	if err != nil {
		botErr := common.WrapError(err, common.MsgFetchProfile, "Failed to fetch profile")
		botErr.Context = log.Fields{"address": addr.Hex()}
		common.HandleError(s, i, botErr, true)
		return
	}

	view := dto.NewProfileDTO(profile, f.symbol)
	view.Stale = stale
	if _, err := common.FollowUpWithEmbed(s, i, CreateProfileEmbed(view), nil, false); err != nil {
		log.Errorf("Failed to send profile embed: %v", err)
	}
}

// resolveAddress uses the address option when given, otherwise the caller's linked wallet
func (f *Feature) resolveAddress(ctx context.Context, i *discordgo.InteractionCreate) (ethcommon.Address, error) {
	if raw, ok := stringOption(i, "address"); ok {
		return ParseAddress(raw)
	}

	discordID, err := strconv.ParseInt(common.InteractionUserID(i), 10, 64)
	if err != nil {
		return ethcommon.Address{}, common.NewSystemError(err, "Failed to parse user ID")
	}
	return f.profiles.WalletFor(ctx, discordID)
}

func (f *Feature) handleLink(s *discordgo.Session, i *discordgo.InteractionCreate) {
	raw, _ := stringOption(i, "address")
	addr, err := ParseAddress(raw)
	if err != nil {
		common.HandleError(s, i, err, false)
		return
	}

	discordID, err := strconv.ParseInt(common.InteractionUserID(i), 10, 64)
	if err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to parse user ID"), false)
		return
	}

	if _, err := f.profiles.LinkWallet(context.Background(), discordID, addr); err != nil {
		common.HandleError(s, i, common.NewSystemError(err, "Failed to link wallet"), false)
		return
	}

	log.WithFields(log.Fields{
		"discord_id": discordID,
		"address":    addr.Hex(),
	}).Info("Linked wallet")

	if err := common.RespondWithSuccess(s, i, "Linked wallet "+common.FormatAddressLink(addr), true); err != nil {
		log.Errorf("Failed to send link response: %v", err)
	}
}

// ParseAddress validates a hex wallet address from user input
func ParseAddress(raw string) (ethcommon.Address, error) {
	raw = strings.TrimSpace(raw)
	if !ethcommon.IsHexAddress(raw) {
		return ethcommon.Address{}, common.NewUserError("Please enter a valid wallet address (0x followed by 40 hex characters)", "invalid address "+raw)
	}
	return ethcommon.HexToAddress(raw), nil
}

func stringOption(i *discordgo.InteractionCreate, name string) (string, bool) {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name {
			return opt.StringValue(), true
		}
	}
	return "", false
}
