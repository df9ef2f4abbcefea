package cmd

import (
	"fmt"
	"strings"

	"fortuneblock/application"
	"fortuneblock/application/dto"
	"fortuneblock/config"
	"fortuneblock/database"
	"fortuneblock/domain/services"
	"fortuneblock/infrastructure"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [address]",
		Short: "List the deposits and registrations recorded for an address",
		Long:  "History reads the transactions this client sent from the database. Without an address the configured account is used.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr common.Address
			if len(args) == 1 {
				raw := strings.TrimSpace(args[0])
				if !common.IsHexAddress(raw) {
					return fmt.Errorf("invalid wallet address %q", raw)
				}
				addr = common.HexToAddress(raw)
			}

			url, err := databaseURL()
			if err != nil {
				return err
			}

			cfg := config.Get()
			ctx := cmd.Context()

			if len(args) == 0 {
				chain, err := dialChain(ctx, cfg, true)
				if err != nil {
					return userError(err, services.MsgFetchHistory)
				}
				addr, _ = chain.client.Account()
				chain.Close()
			}

			db, err := database.NewConnection(ctx, url, cfg.DatabasePool())
			if err != nil {
				return userError(err, services.MsgFetchHistory)
			}
			defer db.Close()

			history := application.NewTransactionHistory(infrastructure.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher()))
			txs, err := history.List(ctx, addr, limit)
			if err != nil {
				return userError(err, services.MsgFetchHistory)
			}
			printTransactions(cmd.OutOrStdout(), dto.NewTransactionDTOs(txs, cfg.CurrencySymbol))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", application.DefaultHistoryLimit, "maximum number of transactions to show")
	return cmd
}
