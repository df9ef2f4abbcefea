package application

import (
	"context"
	"errors"
	"fmt"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/interfaces"
	"fortuneblock/domain/services"

	"github.com/ethereum/go-ethereum/common"
	log "github.com/sirupsen/logrus"
)

// ProfileLookup reads profiles from the contract and caches them as snapshots.
// When the contract cannot be reached the last snapshot is served instead.
type ProfileLookup struct {
	profileService interfaces.ProfileService
	uowFactory     UnitOfWorkFactory
}

// NewProfileLookup creates a new profile lookup
func NewProfileLookup(profileService interfaces.ProfileService, uowFactory UnitOfWorkFactory) *ProfileLookup {
	return &ProfileLookup{
		profileService: profileService,
		uowFactory:     uowFactory,
	}
}

// Lookup returns the profile for addr and whether it came from a stale snapshot
func (p *ProfileLookup) Lookup(ctx context.Context, addr common.Address) (*entities.UserProfile, bool, error) {
	profile, err := p.profileService.GetProfile(ctx, addr)
	if err == nil {
		if err := p.store(ctx, profile); err != nil {
			log.WithError(err).WithField("address", addr.Hex()).Warn("Failed to cache profile snapshot")
		}
		return profile, false, nil
	}
	if errors.Is(err, services.ErrProfileNotFound) {
		return nil, false, err
	}

	snapshot, snapErr := p.snapshot(ctx, addr)
	if snapErr != nil {
		log.WithError(snapErr).WithField("address", addr.Hex()).Warn("Failed to read profile snapshot")
		return nil, false, err
	}
	if snapshot == nil || !snapshot.IsRegistered() {
		return nil, false, err
	}

	log.WithFields(log.Fields{
		"address":    addr.Hex(),
		"fetched_at": snapshot.FetchedAt,
		"error":      err,
	}).Warn("Serving stale profile snapshot")
	return snapshot, true, nil
}

// WalletFor returns the wallet a Discord user linked, or ErrWalletNotLinked
func (p *ProfileLookup) WalletFor(ctx context.Context, discordID int64) (common.Address, error) {
	uow := p.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return common.Address{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	link, err := uow.WalletLinkRepository().GetByDiscordID(ctx, discordID)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to get wallet link: %w", err)
	}
	if link == nil {
		return common.Address{}, services.ErrWalletNotLinked
	}
	return link.Address, nil
}

// LinkWallet associates a Discord user with a wallet address
func (p *ProfileLookup) LinkWallet(ctx context.Context, discordID int64, addr common.Address) (*entities.WalletLink, error) {
	uow := p.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	link, err := uow.WalletLinkRepository().Link(ctx, discordID, addr)
	if err != nil {
		return nil, fmt.Errorf("failed to link wallet: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit wallet link: %w", err)
	}
	return link, nil
}

func (p *ProfileLookup) store(ctx context.Context, profile *entities.UserProfile) error {
	uow := p.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.ProfileSnapshotRepository().Upsert(ctx, profile); err != nil {
		return err
	}
	return uow.Commit()
}

func (p *ProfileLookup) snapshot(ctx context.Context, addr common.Address) (*entities.UserProfile, error) {
	uow := p.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	return uow.ProfileSnapshotRepository().GetByAddress(ctx, addr)
}
