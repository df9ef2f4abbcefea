package entities

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserProfile_IsRegistered(t *testing.T) {
	t.Parallel()

	assert.False(t, (&UserProfile{}).IsRegistered())
	assert.True(t, (&UserProfile{Username: "satoshi"}).IsRegistered())
}

func TestUserProfile_Counts(t *testing.T) {
	t.Parallel()

	profile := &UserProfile{
		ParticipatedLotteries: []uint64{1, 2, 5},
		WonLotteries:          []uint64{2},
	}

	assert.Equal(t, 3, profile.ParticipationCount())
	assert.Equal(t, 1, profile.WinCount())
	assert.True(t, profile.HasWon(2))
	assert.False(t, profile.HasWon(5))
}

func TestUserProfile_TotalWinningsOrZero(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, (&UserProfile{}).TotalWinningsOrZero().Sign())
	assert.Equal(t, int64(7), (&UserProfile{TotalWinnings: big.NewInt(7)}).TotalWinningsOrZero().Int64())
}

func TestContractTransaction_Confirm(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		success bool
		want    TransactionStatus
	}{
		{name: "successful receipt", success: true, want: TransactionStatusConfirmed},
		{name: "reverted receipt", success: false, want: TransactionStatusFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tx := &ContractTransaction{Status: TransactionStatusPending}
			assert.False(t, tx.IsFinal())

			at := time.Now()
			tx.Confirm(123, tt.success, at)

			assert.Equal(t, tt.want, tx.Status)
			assert.True(t, tx.IsFinal())
			assert.Equal(t, uint64(123), *tx.BlockNumber)
			assert.Equal(t, at, *tx.ConfirmedAt)
		})
	}
}
