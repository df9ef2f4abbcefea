package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands(t *testing.T) {
	t.Parallel()

	byName := make(map[string]*discordgo.ApplicationCommand)
	for _, cmd := range Commands() {
		assert.NotEmpty(t, cmd.Description, cmd.Name)
		byName[cmd.Name] = cmd
	}

	for _, name := range []string{"home", "lotteries", "lottery", "profile", "link"} {
		assert.Contains(t, byName, name)
	}

	require.Len(t, byName["lottery"].Options, 1)
	assert.True(t, byName["lottery"].Options[0].Required)
	assert.Equal(t, discordgo.ApplicationCommandOptionInteger, byName["lottery"].Options[0].Type)

	require.Len(t, byName["profile"].Options, 1)
	assert.False(t, byName["profile"].Options[0].Required)
	assert.True(t, byName["link"].Options[0].Required)
}

func TestGetLotteryAnnouncer(t *testing.T) {
	t.Parallel()

	assert.Nil(t, (&Bot{}).GetLotteryAnnouncer())
}
