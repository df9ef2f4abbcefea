package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"fortuneblock/application/dto"
	"fortuneblock/config"
	"fortuneblock/domain/services"
	"fortuneblock/infrastructure"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newHomeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "home",
		Short: "Show the FortuneBlock landing view",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			ctx := cmd.Context()

			chain, err := dialChain(ctx, cfg, false)
			if err != nil {
				// The landing view renders without stats when the chain is down
				log.WithError(err).Warn("Chain unavailable, showing home without stats")
				printHome(cmd.OutOrStdout(), dto.NewStaticHomeDTO())
				return nil
			}
			defer chain.Close()

			lotteryService := services.NewLotteryService(chain.client, infrastructure.NewNoopEventPublisher())
			lotteries, err := lotteryService.ListActiveLotteries(ctx)
			if err != nil {
				log.WithError(err).Warn("Failed to fetch lotteries for home")
				printHome(cmd.OutOrStdout(), dto.NewStaticHomeDTO())
				return nil
			}
			printHome(cmd.OutOrStdout(), dto.NewHomeDTO(lotteries, cfg.CurrencySymbol))
			return nil
		},
	}
}

func newLotteriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lotteries",
		Short: "List the active lotteries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			ctx := cmd.Context()

			chain, err := dialChain(ctx, cfg, false)
			if err != nil {
				return userError(err, services.MsgFetchLotteries)
			}
			defer chain.Close()

			lotteries, err := services.NewLotteryService(chain.client, infrastructure.NewNoopEventPublisher()).ListActiveLotteries(ctx)
			if err != nil {
				return userError(err, services.MsgFetchLotteries)
			}
			printLotteries(cmd.OutOrStdout(), dto.NewLotteryDTOs(lotteries, time.Now(), time.Local, cfg.CurrencySymbol))
			return nil
		},
	}
}

func newLotteryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lottery <id>",
		Short: "Show one lottery",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLotteryID(args[0])
			if err != nil {
				return err
			}

			cfg := config.Get()
			ctx := cmd.Context()

			chain, err := dialChain(ctx, cfg, false)
			if err != nil {
				return userError(err, services.MsgFetchLotteries)
			}
			defer chain.Close()

			lottery, err := services.NewLotteryService(chain.client, infrastructure.NewNoopEventPublisher()).GetLottery(ctx, id)
			if err != nil {
				return userError(err, services.MsgFetchLotteries)
			}
			view := dto.NewLotteryDTO(lottery, time.Now(), time.Local, cfg.CurrencySymbol)
			if account, ok := chain.client.Account(); ok {
				view = view.WithParticipant(lottery, account)
			}
			printLottery(cmd.OutOrStdout(), view)
			return nil
		},
	}
}

func newDepositCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "deposit <id> <amount>",
		Short: "Deposit into a lottery from the configured account",
		Long:  "Deposit sends <amount> (in ether units, e.g. 0.1) to lottery <id> and waits for the transaction to be mined.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseLotteryID(args[0])
			if err != nil {
				return err
			}

			if _, err := services.ParseDepositAmount(args[1]); err != nil {
				return userError(err, services.MsgDepositFailed)
			}

			cfg := config.Get()
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			chain, err := dialChain(ctx, cfg, true)
			if err != nil {
				return userError(err, services.MsgDepositFailed)
			}
			defer chain.Close()

			publisher, closePublisher, err := newEventPublisher(ctx, cfg)
			if err != nil {
				return err
			}
			defer closePublisher()

			result, err := services.NewLotteryService(chain.client, publisher).Deposit(ctx, id, args[1])
			if err != nil {
				return userError(err, services.MsgDepositFailed)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, services.MsgDepositSucceeded)
			fmt.Fprintf(out, "Transaction: %s\n", result.Transaction.Hash().Hex())
			if result.Lottery != nil {
				printLottery(out, dto.NewLotteryDTO(result.Lottery, time.Now(), time.Local, cfg.CurrencySymbol))
			}
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "how long to wait for the transaction to be mined")
	return cmd
}

func parseLotteryID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid lottery id %q", raw)
	}
	return id, nil
}

// userError logs the underlying error and returns the message shown to users
func userError(err error, fallback string) error {
	log.WithError(err).Debug("Command failed")
	return errors.New(services.UserMessage(err, fallback))
}
