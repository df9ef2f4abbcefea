package cmd

import (
	"bytes"
	"testing"

	"fortuneblock/application/dto"
	"fortuneblock/database"
	"fortuneblock/domain/services"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand_Tree(t *testing.T) {
	t.Parallel()

	root := NewRootCommand()
	for _, path := range [][]string{
		{"serve"},
		{"home"},
		{"lotteries"},
		{"lottery", "1"},
		{"deposit", "1", "0.1"},
		{"profile"},
		{"register", "alice"},
		{"history"},
		{"deploy"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
	} {
		found, rest, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-len(rest)-1], found.Name())
	}
}

func TestCommandArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		command string
		args    []string
		wantErr bool
	}{
		{name: "lottery needs an id", command: "lottery", args: nil, wantErr: true},
		{name: "lottery with id", command: "lottery", args: []string{"3"}},
		{name: "deposit needs an amount", command: "deposit", args: []string{"3"}, wantErr: true},
		{name: "deposit with amount", command: "deposit", args: []string{"3", "0.5"}},
		{name: "profile with address", command: "profile", args: []string{"0xabc"}},
		{name: "profile with two addresses", command: "profile", args: []string{"0xabc", "0xdef"}, wantErr: true},
		{name: "history for account", command: "history", args: nil},
		{name: "history for address", command: "history", args: []string{"0xabc"}},
		{name: "history with two addresses", command: "history", args: []string{"0xabc", "0xdef"}, wantErr: true},
		{name: "lotteries takes nothing", command: "lotteries", args: []string{"x"}, wantErr: true},
	}

	root := NewRootCommand()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, _, err := root.Find([]string{tt.command})
			require.NoError(t, err)
			err = found.ValidateArgs(tt.args)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDepositCommand_RejectsAmountBeforeDialing(t *testing.T) {
	t.Parallel()

	for _, amount := range []string{"0", "-1", "abc", "0.0000000000000000001"} {
		t.Run(amount, func(t *testing.T) {
			t.Parallel()

			cmd := newDepositCommand()
			err := cmd.RunE(cmd, []string{"1", amount})
			require.Error(t, err)
			assert.Equal(t, services.MsgInvalidDeposit, err.Error())
		})
	}
}

func TestParseLotteryID(t *testing.T) {
	t.Parallel()

	id, err := parseLotteryID("42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	for _, raw := range []string{"", "-1", "abc", "1.5"} {
		_, err := parseLotteryID(raw)
		assert.Error(t, err, raw)
	}
}

func TestParseSteps(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args    []string
		want    int
		wantErr bool
	}{
		{args: nil, want: 1},
		{args: []string{"3"}, want: 3},
		{args: []string{"0"}, wantErr: true},
		{args: []string{"many"}, wantErr: true},
	}

	for _, tt := range tests {
		steps, err := parseSteps(tt.args)
		if tt.wantErr {
			assert.Error(t, err, tt.args)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, steps)
	}
}

func TestPrintLotteries(t *testing.T) {
	t.Parallel()

	var empty bytes.Buffer
	printLotteries(&empty, nil)
	assert.Equal(t, msgNoActiveLotteries+"\n", empty.String())

	var buf bytes.Buffer
	printLotteries(&buf, []dto.LotteryDTO{
		{ID: 7, EndTimeDisplay: "Mar 1, 2024 12:00 PM UTC", TimeRemaining: "2h", PrizePool: "1.5 GAS", ParticipantCount: 3},
	})
	out := buf.String()
	assert.Contains(t, out, "PRIZE POOL")
	assert.Contains(t, out, "1.5 GAS")
	assert.Contains(t, out, "Mar 1, 2024 12:00 PM UTC")
}

func TestPrintHome(t *testing.T) {
	t.Parallel()

	home := dto.NewStaticHomeDTO()
	home.Stats = &dto.HomeStatsDTO{ActiveLotteries: 2, TotalPrizePool: "3.0 GAS"}

	var withStats bytes.Buffer
	printHome(&withStats, home)
	assert.Contains(t, withStats.String(), "Active lotteries: 2")
	assert.Contains(t, withStats.String(), "Instant Payouts")

	var withoutStats bytes.Buffer
	printHome(&withoutStats, dto.NewStaticHomeDTO())
	assert.NotContains(t, withoutStats.String(), "Active lotteries")
	assert.Contains(t, withoutStats.String(), "FortuneBlock")
}

func TestPrintLottery_Joined(t *testing.T) {
	t.Parallel()

	yes, no := true, false
	tests := []struct {
		name   string
		joined *bool
		want   string
	}{
		{name: "no account", joined: nil, want: ""},
		{name: "joined", joined: &yes, want: "Joined:       yes"},
		{name: "not joined", joined: &no, want: "Joined:       no"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			printLottery(&buf, dto.LotteryDTO{ID: 3, PrizePool: "1.0 GAS", Joined: tt.joined})
			assert.Contains(t, buf.String(), "Lottery #3")
			if tt.want == "" {
				assert.NotContains(t, buf.String(), "Joined")
			} else {
				assert.Contains(t, buf.String(), tt.want)
			}
		})
	}
}

func TestPrintTransactions(t *testing.T) {
	t.Parallel()

	var empty bytes.Buffer
	printTransactions(&empty, nil)
	assert.Equal(t, msgNoTransactions+"\n", empty.String())

	block := uint64(42)
	var buf bytes.Buffer
	printTransactions(&buf, []dto.TransactionDTO{
		{TxHash: "0xaaa", Status: "confirmed", BlockNumber: &block, Summary: "Deposit of 1.0 GAS into lottery #3"},
		{TxHash: "0xbbb", Status: "pending", Summary: `Registered username "alice"`},
	})
	out := buf.String()
	assert.Contains(t, out, "Deposit of 1.0 GAS into lottery #3")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "0xbbb")
}

func TestPrintProfile(t *testing.T) {
	t.Parallel()

	profile := dto.ProfileDTO{
		Address:             "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
		Username:            "alice",
		ParticipatedDisplay: "1, 2",
		WonDisplay:          "2",
		ParticipationCount:  2,
		WinCount:            1,
		TotalWinnings:       "0.0 GAS",
	}

	var live bytes.Buffer
	printProfile(&live, profile)
	assert.Contains(t, live.String(), "alice")
	assert.Contains(t, live.String(), "2 (1 of 2)")
	assert.NotContains(t, live.String(), "cached")

	profile.Stale = true
	var stale bytes.Buffer
	printProfile(&stale, profile)
	assert.Contains(t, stale.String(), "cached")
}

func TestPrintMigrationStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status database.MigrationStatus
		want   string
	}{
		{name: "none", status: database.MigrationStatus{}, want: "No migrations applied"},
		{name: "applied", status: database.MigrationStatus{Applied: true, Version: 4}, want: "Current version: 4"},
		{name: "dirty", status: database.MigrationStatus{Applied: true, Version: 4, Dirty: true}, want: "dirty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			c := &cobra.Command{}
			c.SetOut(&buf)
			printMigrationStatus(c, &tt.status)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}
