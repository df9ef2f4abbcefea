package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/events"
	"fortuneblock/domain/interfaces"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	log "github.com/sirupsen/logrus"
)

const (
	// MaxUsernameLength is the longest username accepted for registration, in characters
	MaxUsernameLength = 32
)

// profileService implements the profile view and username registration
type profileService struct {
	contract       interfaces.LotteryContract
	eventPublisher interfaces.EventPublisher
}

// NewProfileService creates a new profile service
func NewProfileService(
	contract interfaces.LotteryContract,
	eventPublisher interfaces.EventPublisher,
) interfaces.ProfileService {
	return &profileService{
		contract:       contract,
		eventPublisher: eventPublisher,
	}
}

// GetProfile fetches the profile of an address, failing with ErrProfileNotFound
// when the address has not registered a username
func (s *profileService) GetProfile(ctx context.Context, addr common.Address) (*entities.UserProfile, error) {
	profile, err := s.contract.GetUserProfile(ctx, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile for %s: %w", addr.Hex(), err)
	}
	if !profile.IsRegistered() {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

// GetAccountProfile fetches the profile of the connected account
func (s *profileService) GetAccountProfile(ctx context.Context) (*entities.UserProfile, error) {
	account, ok := s.contract.Account()
	if !ok {
		return nil, ErrWalletNotConnected
	}
	return s.GetProfile(ctx, account)
}

// RegisterUsername registers a username for the connected account and waits for it to be mined
func (s *profileService) RegisterUsername(ctx context.Context, username string) (*interfaces.RegistrationResult, error) {
	account, ok := s.contract.Account()
	if !ok {
		return nil, ErrWalletNotConnected
	}

	username, err := NormalizeUsername(username)
	if err != nil {
		return nil, err
	}

	tx, err := s.contract.RegisterUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to send username registration: %w", err)
	}

	log.WithFields(log.Fields{
		"account":  account.Hex(),
		"username": username,
		"tx_hash":  tx.Hash().Hex(),
	}).Info("Username registration submitted, waiting for confirmation")

	receipt, err := s.contract.WaitMined(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("failed waiting for registration %s: %w", tx.Hash().Hex(), err)
	}

	success := receipt.Status == types.ReceiptStatusSuccessful
	event := events.UsernameRegisteredEvent{
		Address:     account,
		Username:    username,
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
		Success:     success,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).WithField("tx_hash", tx.Hash().Hex()).Warn("Failed to publish registration event")
	}

	if !success {
		return nil, fmt.Errorf("%w: registration %s", ErrTransactionReverted, tx.Hash().Hex())
	}

	return &interfaces.RegistrationResult{
		Username:    username,
		Transaction: tx,
		Receipt:     receipt,
	}, nil
}

// NormalizeUsername trims a username and checks it is 1..MaxUsernameLength printable characters
func NormalizeUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", fmt.Errorf("%w: username is empty", ErrInvalidUsername)
	}
	if utf8.RuneCountInString(username) > MaxUsernameLength {
		return "", fmt.Errorf("%w: username is longer than %d characters", ErrInvalidUsername, MaxUsernameLength)
	}
	for _, r := range username {
		if !unicode.IsPrint(r) {
			return "", fmt.Errorf("%w: username contains unprintable characters", ErrInvalidUsername)
		}
	}
	return username, nil
}
