package contract

import (
	"context"
	"fmt"
	"time"

	"fortuneblock/domain/utils"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultConfirmations is how many blocks a deployment waits for before it is reported
	DefaultConfirmations = 5

	defaultPollInterval = 2 * time.Second
)

// Deployer deploys a compiled contract from the signing account
type Deployer struct {
	backend       Backend
	signer        *Signer
	confirmations uint64
	pollInterval  time.Duration
}

// DeployResult describes a confirmed deployment
type DeployResult struct {
	Address       common.Address
	TxHash        common.Hash
	BlockNumber   uint64
	Confirmations uint64
}

// NewDeployer creates a deployer. A zero confirmations value means DefaultConfirmations.
func NewDeployer(backend Backend, signer *Signer, confirmations uint64) *Deployer {
	if confirmations == 0 {
		confirmations = DefaultConfirmations
	}
	return &Deployer{
		backend:       backend,
		signer:        signer,
		confirmations: confirmations,
		pollInterval:  defaultPollInterval,
	}
}

// SetPollInterval changes how often the chain head is checked while waiting for confirmations
func (d *Deployer) SetPollInterval(interval time.Duration) {
	d.pollInterval = interval
}

// Deploy sends the artifact's creation transaction and waits until it has the
// configured number of confirmations
func (d *Deployer) Deploy(ctx context.Context, artifact *Artifact) (*DeployResult, error) {
	deployer := d.signer.Address()

	balance, err := d.backend.BalanceAt(ctx, deployer, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get deployer balance: %w", err)
	}

	logger := log.WithFields(log.Fields{
		"contract": artifact.ContractName,
		"deployer": deployer.Hex(),
	})
	logger.WithField("balance", utils.FormatEther(balance)).Info("Deploying contract")

	address, tx, _, err := bind.DeployContract(d.signer.TransactOpts(ctx, nil), artifact.ABI, artifact.Bytecode, d.backend)
	if err != nil {
		return nil, fmt.Errorf("failed to send deployment: %w", err)
	}
	logger.WithFields(log.Fields{
		"address": address.Hex(),
		"tx_hash": tx.Hash().Hex(),
	}).Info("Deployment transaction sent")

	receipt, err := bind.WaitMined(ctx, d.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for deployment %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, fmt.Errorf("deployment %s reverted", tx.Hash().Hex())
	}

	code, err := d.backend.CodeAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to read deployed code: %w", err)
	}
	if len(code) == 0 {
		return nil, bind.ErrNoCodeAfterDeploy
	}

	block := receipt.BlockNumber.Uint64()
	confirmations, err := d.waitConfirmations(ctx, block)
	if err != nil {
		return nil, err
	}

	logger.WithFields(log.Fields{
		"address":       address.Hex(),
		"block":         block,
		"confirmations": confirmations,
	}).Info("Contract deployed")
	logger.Info("Source verification is not supported, skipping")

	return &DeployResult{
		Address:       address,
		TxHash:        tx.Hash(),
		BlockNumber:   block,
		Confirmations: confirmations,
	}, nil
}

// waitConfirmations polls the chain head until block has enough confirmations.
// The block a transaction is mined in counts as its first confirmation.
func (d *Deployer) waitConfirmations(ctx context.Context, block uint64) (uint64, error) {
	for {
		head, err := d.backend.HeaderByNumber(ctx, nil)
		if err != nil {
			return 0, fmt.Errorf("failed to get chain head: %w", err)
		}

		var confirmations uint64
		if current := head.Number.Uint64(); current >= block {
			confirmations = current - block + 1
		}
		if confirmations >= d.confirmations {
			return confirmations, nil
		}

		log.WithFields(log.Fields{
			"have": confirmations,
			"want": d.confirmations,
		}).Debug("Waiting for confirmations")

		select {
		case <-ctx.Done():
			return confirmations, ctx.Err()
		case <-time.After(d.pollInterval):
		}
	}
}
