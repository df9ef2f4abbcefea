package profile

import (
	"context"
	"testing"

	"fortuneblock/application/dto"
	"fortuneblock/bot/common"
	"fortuneblock/domain/entities"
	"fortuneblock/domain/services"

	"github.com/bwmarrin/discordgo"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	t.Parallel()

	want := ethcommon.HexToAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976F")

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "checksummed", input: "0x71C7656EC7ab88b098defB751B7401B5f6d8976F"},
		{name: "lowercase", input: "0x71c7656ec7ab88b098defb751b7401b5f6d8976f"},
		{name: "padded", input: "  0x71C7656EC7ab88b098defB751B7401B5f6d8976F "},
		{name: "too short", input: "0x71C7656E", wantErr: true},
		{name: "not hex", input: "alice.eth", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := ParseAddress(tt.input)
			if tt.wantErr {
				var botErr *common.BotError
				require.ErrorAs(t, err, &botErr)
				assert.Contains(t, botErr.UserMessage, "valid wallet address")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, want, addr)
		})
	}
}

func TestCreateProfileEmbed(t *testing.T) {
	t.Parallel()

	view := dto.ProfileDTO{
		Address:             "0x00000000000000000000000000000000000000A1",
		Username:            "alice",
		ParticipatedDisplay: "1, 2",
		WonDisplay:          "None",
		ParticipationCount:  2,
		TotalWinnings:       "0.0 GAS",
	}

	embed := CreateProfileEmbed(view)
	assert.Equal(t, "alice's Profile", embed.Title)
	require.Len(t, embed.Fields, 4)
	assert.Equal(t, "1, 2", embed.Fields[0].Value)
	assert.Equal(t, "None", embed.Fields[1].Value)
	assert.Nil(t, embed.Footer)

	view.Stale = true
	stale := CreateProfileEmbed(view)
	require.NotNil(t, stale.Footer)
	assert.Equal(t, common.ColorWarning, stale.Color)
}

// stubProfiles resolves linked wallets from a map
type stubProfiles struct {
	links map[int64]ethcommon.Address
}

func (s *stubProfiles) Lookup(ctx context.Context, addr ethcommon.Address) (*entities.UserProfile, bool, error) {
	return nil, false, services.ErrProfileNotFound
}

func (s *stubProfiles) WalletFor(ctx context.Context, discordID int64) (ethcommon.Address, error) {
	addr, ok := s.links[discordID]
	if !ok {
		return ethcommon.Address{}, services.ErrWalletNotLinked
	}
	return addr, nil
}

func (s *stubProfiles) LinkWallet(ctx context.Context, discordID int64, addr ethcommon.Address) (*entities.WalletLink, error) {
	return &entities.WalletLink{DiscordID: discordID, Address: addr}, nil
}

func profileInteraction(userID string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			Type: discordgo.InteractionApplicationCommand,
			Data: discordgo.ApplicationCommandInteractionData{Name: "profile", Options: options},
			User: &discordgo.User{ID: userID},
		},
	}
}

func TestFeature_ResolveAddress(t *testing.T) {
	t.Parallel()

	linked := ethcommon.HexToAddress("0x00000000000000000000000000000000000000a1")
	given := ethcommon.HexToAddress("0x71C7656EC7ab88b098defB751B7401B5f6d8976F")
	feature := NewFeature(&stubProfiles{links: map[int64]ethcommon.Address{42: linked}}, "GAS")

	addr, err := feature.resolveAddress(context.Background(), profileInteraction("42"))
	require.NoError(t, err)
	assert.Equal(t, linked, addr)

	addr, err = feature.resolveAddress(context.Background(), profileInteraction("7", &discordgo.ApplicationCommandInteractionDataOption{
		Name:  "address",
		Type:  discordgo.ApplicationCommandOptionString,
		Value: given.Hex(),
	}))
	require.NoError(t, err)
	assert.Equal(t, given, addr)
}

func TestFeature_ResolveAddress_NotLinked(t *testing.T) {
	t.Parallel()

	feature := NewFeature(&stubProfiles{}, "GAS")

	_, err := feature.resolveAddress(context.Background(), profileInteraction("7"))
	require.ErrorIs(t, err, services.ErrWalletNotLinked)

	botErr := common.WrapError(err, common.MsgFetchProfile, "Failed to resolve profile address")
	assert.Equal(t, services.MsgWalletNotLinked, botErr.UserMessage)
	assert.Contains(t, botErr.UserMessage, "/link")
}
