package repository

import (
	"context"
	"testing"

	"fortuneblock/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalletLinkRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewWalletLinkRepository(testDB.DB)
	ctx := context.Background()

	link, err := repo.GetByDiscordID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, link)

	link, err = repo.Link(ctx, 42, alice)
	require.NoError(t, err)
	assert.Equal(t, alice, link.Address)
	assert.False(t, link.LinkedAt.IsZero())

	// Relinking replaces the address
	_, err = repo.Link(ctx, 42, bob)
	require.NoError(t, err)

	link, err = repo.GetByDiscordID(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, link)
	assert.Equal(t, bob, link.Address)
}
