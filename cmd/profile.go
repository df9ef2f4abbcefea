package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fortuneblock/application/dto"
	"fortuneblock/config"
	"fortuneblock/domain/entities"
	"fortuneblock/domain/services"
	"fortuneblock/infrastructure"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

func newProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "profile [address]",
		Short: "Show a user profile, the configured account's when no address is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var addr *common.Address
			if len(args) == 1 {
				raw := strings.TrimSpace(args[0])
				if !common.IsHexAddress(raw) {
					return fmt.Errorf("invalid wallet address %q", raw)
				}
				parsed := common.HexToAddress(raw)
				addr = &parsed
			}

			cfg := config.Get()
			ctx := cmd.Context()

			chain, err := dialChain(ctx, cfg, false)
			if err != nil {
				return userError(err, services.MsgFetchProfile)
			}
			defer chain.Close()

			profileService := services.NewProfileService(chain.client, infrastructure.NewNoopEventPublisher())

			var profile *entities.UserProfile
			if addr != nil {
				profile, err = profileService.GetProfile(ctx, *addr)
			} else {
				profile, err = profileService.GetAccountProfile(ctx)
			}
			if err != nil {
				return userError(err, services.MsgFetchProfile)
			}

			printProfile(cmd.OutOrStdout(), dto.NewProfileDTO(profile, cfg.CurrencySymbol))
			return nil
		},
	}
}

func newRegisterCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Register a username for the configured account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			// Validate before touching the chain
			if _, err := services.NormalizeUsername(args[0]); err != nil {
				return userError(err, services.MsgRegisterFailed)
			}

			chain, err := dialChain(ctx, cfg, true)
			if err != nil {
				return userError(err, services.MsgRegisterFailed)
			}
			defer chain.Close()

			publisher, closePublisher, err := newEventPublisher(ctx, cfg)
			if err != nil {
				return err
			}
			defer closePublisher()

			result, err := services.NewProfileService(chain.client, publisher).RegisterUsername(ctx, args[0])
			if err != nil {
				return userError(err, services.MsgRegisterFailed)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Registered username %s\n", result.Username)
			fmt.Fprintf(out, "Transaction: %s\n", result.Transaction.Hash().Hex())
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "how long to wait for the transaction to be mined")
	return cmd
}
