package cmd

import (
	"fmt"
	"io"
	"strconv"

	"fortuneblock/application/dto"

	"github.com/olekukonko/tablewriter"
)

const (
	msgNoActiveLotteries = "No active lotteries"
	msgNoTransactions    = "No recorded transactions"
)

func printHome(w io.Writer, home dto.HomeDTO) {
	fmt.Fprintf(w, "%s\n%s\n\n%s\n\n", home.Title, home.Tagline, home.Description)
	for _, feature := range home.Features {
		fmt.Fprintf(w, "* %s: %s\n", feature.Name, feature.Description)
	}
	if home.Stats != nil {
		fmt.Fprintf(w, "\nActive lotteries: %d\nTotal prize pool: %s\n", home.Stats.ActiveLotteries, home.Stats.TotalPrizePool)
	}
}

func printLotteries(w io.Writer, lotteries []dto.LotteryDTO) {
	if len(lotteries) == 0 {
		fmt.Fprintln(w, msgNoActiveLotteries)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Ends", "Remaining", "Prize Pool", "Participants"})
	table.SetAutoWrapText(false)
	for _, l := range lotteries {
		table.Append([]string{
			strconv.FormatUint(l.ID, 10),
			l.EndTimeDisplay,
			l.TimeRemaining,
			l.PrizePool,
			strconv.Itoa(l.ParticipantCount),
		})
	}
	table.Render()
}

func printLottery(w io.Writer, l dto.LotteryDTO) {
	fmt.Fprintf(w, "Lottery #%d\n", l.ID)
	fmt.Fprintf(w, "End time:     %s\n", l.EndTimeDisplay)
	fmt.Fprintf(w, "Remaining:    %s\n", l.TimeRemaining)
	fmt.Fprintf(w, "Prize pool:   %s\n", l.PrizePool)
	fmt.Fprintf(w, "Participants: %d\n", l.ParticipantCount)
	if l.Joined != nil {
		joined := "no"
		if *l.Joined {
			joined = "yes"
		}
		fmt.Fprintf(w, "Joined:       %s\n", joined)
	}
}

func printProfile(w io.Writer, p dto.ProfileDTO) {
	fmt.Fprintf(w, "Username:              %s\n", p.Username)
	fmt.Fprintf(w, "Address:               %s\n", p.Address)
	fmt.Fprintf(w, "Participated lotteries: %s\n", p.ParticipatedDisplay)
	fmt.Fprintf(w, "Won lotteries:         %s (%d of %d)\n", p.WonDisplay, p.WinCount, p.ParticipationCount)
	fmt.Fprintf(w, "Total winnings:        %s\n", p.TotalWinnings)
	if p.Stale {
		fmt.Fprintln(w, "(cached, the chain could not be reached)")
	}
}

func printTransactions(w io.Writer, txs []dto.TransactionDTO) {
	if len(txs) == 0 {
		fmt.Fprintln(w, msgNoTransactions)
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Sent", "Transaction", "Status", "Block", "Details"})
	table.SetAutoWrapText(false)
	for _, tx := range txs {
		block := "-"
		if tx.BlockNumber != nil {
			block = strconv.FormatUint(*tx.BlockNumber, 10)
		}
		table.Append([]string{
			tx.CreatedAt.Local().Format("2006-01-02 15:04"),
			tx.TxHash,
			tx.Status,
			block,
			tx.Summary,
		})
	}
	table.Render()
}
