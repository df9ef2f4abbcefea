package cmd

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"fortuneblock/config"
	"fortuneblock/contract"
	"fortuneblock/domain/interfaces"
	"fortuneblock/domain/services"
	"fortuneblock/infrastructure"

	"github.com/ethereum/go-ethereum/ethclient"
	log "github.com/sirupsen/logrus"
)

const eventSource = "fortuneblock"

// chain bundles an RPC connection with the contract client built on it
type chain struct {
	eth    *ethclient.Client
	client *contract.Client
	signer *contract.Signer
}

func (c *chain) Close() {
	c.eth.Close()
}

// dialChain connects to the configured node. A signer is loaded when a key is
// configured; requireSigner turns its absence into an error.
func dialChain(ctx context.Context, cfg *config.Config, requireSigner bool) (*chain, error) {
	address, err := cfg.Contract()
	if err != nil {
		return nil, err
	}

	eth, err := contract.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, err
	}

	signer, err := loadSigner(ctx, cfg, eth, requireSigner)
	if err != nil {
		eth.Close()
		return nil, err
	}

	client, err := contract.NewClient(eth, address, signer)
	if err != nil {
		eth.Close()
		return nil, fmt.Errorf("failed to bind contract at %s: %w", address.Hex(), err)
	}

	log.WithFields(log.Fields{
		"rpc":      cfg.RPCURL,
		"contract": address.Hex(),
		"signer":   signer != nil,
	}).Debug("Connected to chain")

	return &chain{eth: eth, client: client, signer: signer}, nil
}

func loadSigner(ctx context.Context, cfg *config.Config, eth *ethclient.Client, required bool) (*contract.Signer, error) {
	if !cfg.HasSigner() {
		if required {
			return nil, fmt.Errorf("%w: set PRIVATE_KEY or KEYSTORE_PATH", services.ErrWalletNotConnected)
		}
		return nil, nil
	}

	chainID, err := resolveChainID(ctx, cfg, eth)
	if err != nil {
		return nil, err
	}
	return contract.LoadSigner(cfg.PrivateKey, cfg.KeystorePath, cfg.KeystorePassphrase, chainID)
}

func resolveChainID(ctx context.Context, cfg *config.Config, eth *ethclient.Client) (*big.Int, error) {
	if cfg.ChainID != nil {
		return cfg.ChainID, nil
	}
	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}
	return chainID, nil
}

// newEventPublisher publishes to NATS when servers are configured so a running
// serve process records writes made from the command line
func newEventPublisher(ctx context.Context, cfg *config.Config) (interfaces.EventPublisher, func(), error) {
	if strings.TrimSpace(cfg.NATSServers) == "" {
		return infrastructure.NewNoopEventPublisher(), func() {}, nil
	}

	client := infrastructure.NewNATSClient(cfg.NATSServers, eventSource+"-cli")
	if err := client.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	publisher := infrastructure.NewNATSEventPublisher(client, infrastructure.NewEventSubjectMapper(), eventSource)
	if err := publisher.EnsureDomainEventStream(client); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ensure event stream: %w", err)
	}

	return publisher, func() {
		if err := client.Close(); err != nil {
			log.Warnf("Failed to close NATS client: %v", err)
		}
	}, nil
}
