package cmd

import (
	"context"
	"fmt"
	"time"

	"fortuneblock/config"
	"fortuneblock/contract"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newDeployCommand() *cobra.Command {
	var (
		artifactPath  string
		confirmations uint64
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the FortuneBlock contract from the configured account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			if artifactPath == "" {
				artifactPath = cfg.ArtifactPath
			}
			if confirmations == 0 {
				confirmations = cfg.Confirmations
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			artifact, err := contract.LoadArtifact(artifactPath)
			if err != nil {
				return err
			}

			log.Info("Starting deployment of FortuneBlock...")
			eth, err := contract.Dial(ctx, cfg.RPCURL)
			if err != nil {
				return err
			}
			defer eth.Close()

			signer, err := loadSigner(ctx, cfg, eth, true)
			if err != nil {
				return err
			}

			result, err := contract.NewDeployer(eth, signer, confirmations).Deploy(ctx, artifact)
			if err != nil {
				return fmt.Errorf("deployment failed: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s deployed to: %s\n", artifact.ContractName, result.Address.Hex())
			fmt.Fprintf(out, "Transaction: %s (block %d, %d confirmations)\n", result.TxHash.Hex(), result.BlockNumber, result.Confirmations)
			fmt.Fprintf(out, "Set CONTRACT_ADDRESS=%s to use it\n", result.Address.Hex())
			return nil
		},
	}

	cmd.Flags().StringVar(&artifactPath, "artifact", "", "compiled contract JSON (defaults to ARTIFACT_PATH)")
	cmd.Flags().Uint64Var(&confirmations, "confirmations", 0, "blocks to wait for after the deployment is mined (defaults to CONFIRMATIONS)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "how long to wait for the deployment")
	return cmd
}
