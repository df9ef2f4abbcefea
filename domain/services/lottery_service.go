package services

import (
	"context"
	"fmt"
	"math/big"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/events"
	"fortuneblock/domain/interfaces"
	"fortuneblock/domain/utils"

	"github.com/ethereum/go-ethereum/core/types"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// maxConcurrentDetailFetches bounds the parallel getLotteryDetails calls per listing
	maxConcurrentDetailFetches = 8
)

// lotteryService implements the lotteries view on top of the contract
type lotteryService struct {
	contract       interfaces.LotteryContract
	eventPublisher interfaces.EventPublisher
}

// NewLotteryService creates a new lottery service
func NewLotteryService(
	contract interfaces.LotteryContract,
	eventPublisher interfaces.EventPublisher,
) interfaces.LotteryService {
	return &lotteryService{
		contract:       contract,
		eventPublisher: eventPublisher,
	}
}

// ListActiveLotteries fetches the active lottery IDs and then the details of each,
// keeping the order the contract returned the IDs in
func (s *lotteryService) ListActiveLotteries(ctx context.Context) ([]*entities.Lottery, error) {
	ids, err := s.contract.GetActiveLotteries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get active lotteries: %w", err)
	}

	lotteries := make([]*entities.Lottery, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDetailFetches)
	for i, id := range ids {
		g.Go(func() error {
			lottery, err := s.contract.GetLotteryDetails(gctx, id)
			if err != nil {
				return fmt.Errorf("failed to get details for lottery %d: %w", id, err)
			}
			lottery.Active = true
			lotteries[i] = lottery
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return lotteries, nil
}

// GetLottery fetches a single lottery
func (s *lotteryService) GetLottery(ctx context.Context, lotteryID uint64) (*entities.Lottery, error) {
	lottery, err := s.contract.GetLotteryDetails(ctx, lotteryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get lottery %d: %w", lotteryID, err)
	}
	return lottery, nil
}

// Deposit stakes the given ether amount into a lottery from the connected account,
// waits for the transaction to be mined and returns the refreshed lottery
func (s *lotteryService) Deposit(ctx context.Context, lotteryID uint64, amount string) (*interfaces.DepositResult, error) {
	account, ok := s.contract.Account()
	if !ok {
		return nil, ErrWalletNotConnected
	}

	value, err := ParseDepositAmount(amount)
	if err != nil {
		return nil, err
	}

	tx, err := s.contract.Deposit(ctx, lotteryID, value)
	if err != nil {
		return nil, fmt.Errorf("failed to send deposit for lottery %d: %w", lotteryID, err)
	}

	log.WithFields(log.Fields{
		"lottery_id": lotteryID,
		"account":    account.Hex(),
		"amount":     utils.FormatEther(value),
		"tx_hash":    tx.Hash().Hex(),
	}).Info("Deposit submitted, waiting for confirmation")

	receipt, err := s.contract.WaitMined(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for deposit %s: %w", tx.Hash().Hex(), err)
	}

	success := receipt.Status == types.ReceiptStatusSuccessful
	event := events.DepositConfirmedEvent{
		LotteryID:   lotteryID,
		Depositor:   account,
		Amount:      value,
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		Success:     success,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("tx_hash", tx.Hash().Hex()).Warn("Failed to publish deposit event")
	}

	if !success {
		return nil, fmt.Errorf("%w: deposit %s", ErrTransactionReverted, tx.Hash().Hex())
	}

	result := &interfaces.DepositResult{
		Transaction: tx,
		Receipt:     receipt,
	}

	// The deposit is final at this point, so a failed refresh only costs the updated view
	lottery, err := s.contract.GetLotteryDetails(ctx, lotteryID)
	if err != nil {
		log.WithError(err).WithField("lottery_id", lotteryID).Warn("Failed to refresh lottery after deposit")
		return result, nil
	}
	lottery.Active = true
	result.Lottery = lottery

	return result, nil
}

// ParseDepositAmount converts an ether amount to wei and rejects anything that is not positive
func ParseDepositAmount(amount string) (*big.Int, error) {
	value, err := utils.ParseEther(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDepositAmount, err)
	}
	if value.Sign() <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidDepositAmount)
	}
	return value, nil
}
