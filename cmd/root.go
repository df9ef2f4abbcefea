package cmd

import (
	"io"

	"fortuneblock/config"
	"fortuneblock/logging"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logCloser io.Closer

// NewRootCommand builds the fortuneblock command tree
func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "fortuneblock",
		Short:         "FortuneBlock lottery client",
		Long:          "FortuneBlock is a client for the FortuneBlock lottery contract: a Discord bot, a JSON API and a command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			closer, err := logging.Setup(logging.Options{
				Level: cfg.LogLevel,
				File:  cfg.LogFile,
				JSON:  cfg.LogJSON,
			})
			if err != nil {
				return err
			}
			logCloser = closer
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logCloser != nil {
				if err := logCloser.Close(); err != nil {
					log.Warnf("Failed to close log file: %v", err)
				}
			}
		},
	}

	root.AddCommand(
		newServeCommand(),
		newHomeCommand(),
		newLotteriesCommand(),
		newLotteryCommand(),
		newDepositCommand(),
		newProfileCommand(),
		newRegisterCommand(),
		newHistoryCommand(),
		newDeployCommand(),
		newMigrateCommand(),
	)
	return root
}
