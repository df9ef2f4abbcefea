package application

import (
	"context"
	"fmt"
	"time"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/events"
	"fortuneblock/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// DefaultSyncInterval is how often the contract is polled when no interval is configured
const DefaultSyncInterval = 30 * time.Second

// SyncResult summarizes one pass of the sync worker
type SyncResult struct {
	Opened  []*entities.Lottery
	Updated []*entities.Lottery
	Closed  []*entities.Lottery
}

// LotterySyncWorker polls the contract for active lotteries and keeps the
// snapshot table, domain events and announcements in step with it
type LotterySyncWorker struct {
	lotteryService interfaces.LotteryService
	uowFactory     UnitOfWorkFactory
	announcer      LotteryAnnouncer
	gauge          ActiveLotteryGauge
	interval       time.Duration
}

// NewLotterySyncWorker creates a new sync worker. announcer may be nil.
func NewLotterySyncWorker(lotteryService interfaces.LotteryService, uowFactory UnitOfWorkFactory, announcer LotteryAnnouncer, interval time.Duration) *LotterySyncWorker {
	if interval <= 0 {
		interval = DefaultSyncInterval
	}
	return &LotterySyncWorker{
		lotteryService: lotteryService,
		uowFactory:     uowFactory,
		announcer:      announcer,
		interval:       interval,
	}
}

// SetGauge reports the active lottery count to gauge after every sync
func (w *LotterySyncWorker) SetGauge(gauge ActiveLotteryGauge) {
	w.gauge = gauge
}

// Start begins the sync worker
func (w *LotterySyncWorker) Start(ctx context.Context) func() {
	stopChan := make(chan struct{})

	go func() {
		log.WithField("interval", w.interval).Info("Lottery sync worker started")

		if err := w.seedGauge(ctx); err != nil {
			log.WithError(err).Warn("Failed to seed active lottery gauge from snapshots")
		}

		for {
			if _, err := w.SyncOnce(ctx); err != nil {
				log.Errorf("Error syncing lotteries: %v", err)
			}

			select {
			case <-ctx.Done():
				log.Info("Lottery sync worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Lottery sync worker shutting down (stop requested)...")
				return
			case <-time.After(w.interval):
			}
		}
	}()

	return func() {
		close(stopChan)
	}
}

// SyncOnce fetches the active lotteries, stores them and publishes what changed
func (w *LotterySyncWorker) SyncOnce(ctx context.Context) (*SyncResult, error) {
	lotteries, err := w.lotteryService.ListActiveLotteries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active lotteries: %w", err)
	}

	result, err := w.storeSnapshots(ctx, lotteries)
	if err != nil {
		return nil, err
	}
	if w.gauge != nil {
		w.gauge.SetActiveLotteries(len(lotteries))
	}

	if len(result.Opened)+len(result.Updated)+len(result.Closed) > 0 {
		log.WithFields(log.Fields{
			"active":  len(lotteries),
			"opened":  len(result.Opened),
			"updated": len(result.Updated),
			"closed":  len(result.Closed),
		}).Info("Synced lotteries")
	}

	if w.announcer != nil {
		w.announce(ctx, lotteries, result)
	}

	return result, nil
}

// storeSnapshots diffs the fetched lotteries against the stored snapshots in a
// single transaction. Events are only published if it commits.
func (w *LotterySyncWorker) storeSnapshots(ctx context.Context, lotteries []*entities.Lottery) (*SyncResult, error) {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	repo := uow.LotterySnapshotRepository()
	bus := uow.EventBus()
	result := &SyncResult{}

	activeIDs := make([]uint64, 0, len(lotteries))
	for _, lottery := range lotteries {
		activeIDs = append(activeIDs, lottery.ID)

		previous, err := repo.GetByID(ctx, lottery.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get snapshot for lottery %d: %w", lottery.ID, err)
		}

		switch {
		case previous == nil || !previous.Active:
			result.Opened = append(result.Opened, lottery)
			if err := bus.Publish(events.LotteryOpenedEvent{
				LotteryID:        lottery.ID,
				EndTime:          lottery.EndTime,
				PrizePool:        lottery.PrizePoolOrZero(),
				ParticipantCount: lottery.ParticipantCount(),
			}); err != nil {
				return nil, fmt.Errorf("failed to publish lottery opened event: %w", err)
			}
		case lottery.Differs(previous):
			result.Updated = append(result.Updated, lottery)
			if err := bus.Publish(events.LotteryUpdatedEvent{
				LotteryID:           lottery.ID,
				OldPrizePool:        previous.PrizePoolOrZero(),
				NewPrizePool:        lottery.PrizePoolOrZero(),
				OldParticipantCount: previous.ParticipantCount(),
				NewParticipantCount: lottery.ParticipantCount(),
			}); err != nil {
				return nil, fmt.Errorf("failed to publish lottery updated event: %w", err)
			}
		}

		// Message tracking lives only in the snapshot
		if previous != nil && previous.HasMessage() {
			lottery.SetMessage(*previous.ChannelID, *previous.MessageID)
		}

		if err := repo.Upsert(ctx, lottery); err != nil {
			return nil, fmt.Errorf("failed to store snapshot for lottery %d: %w", lottery.ID, err)
		}
	}

	closed, err := repo.MarkClosed(ctx, activeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to mark closed lotteries: %w", err)
	}
	for _, lottery := range closed {
		result.Closed = append(result.Closed, lottery)
		if err := bus.Publish(events.LotteryClosedEvent{
			LotteryID:        lottery.ID,
			FinalPrizePool:   lottery.PrizePoolOrZero(),
			ParticipantCount: lottery.ParticipantCount(),
		}); err != nil {
			return nil, fmt.Errorf("failed to publish lottery closed event: %w", err)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit lottery sync: %w", err)
	}

	return result, nil
}

// announce posts or edits chat messages after the snapshots are committed.
// Failures are logged and retried on the next pass.
func (w *LotterySyncWorker) announce(ctx context.Context, lotteries []*entities.Lottery, result *SyncResult) {
	updated := make(map[uint64]bool, len(result.Updated))
	for _, lottery := range result.Updated {
		updated[lottery.ID] = true
	}

	for _, lottery := range lotteries {
		if !lottery.HasMessage() {
			channelID, messageID, err := w.announcer.AnnounceLottery(ctx, lottery)
			if err != nil {
				log.WithError(err).WithField("lottery_id", lottery.ID).Error("Failed to announce lottery")
				continue
			}
			lottery.SetMessage(channelID, messageID)
			if err := w.saveMessage(ctx, lottery.ID, channelID, messageID); err != nil {
				log.WithError(err).WithField("lottery_id", lottery.ID).Error("Failed to store lottery message")
			}
			continue
		}

		if updated[lottery.ID] {
			if err := w.announcer.UpdateLotteryAnnouncement(ctx, lottery); err != nil {
				log.WithError(err).WithField("lottery_id", lottery.ID).Error("Failed to update lottery announcement")
			}
		}
	}

	for _, lottery := range result.Closed {
		if !lottery.HasMessage() {
			continue
		}
		if err := w.announcer.AnnounceLotteryClosed(ctx, lottery); err != nil {
			log.WithError(err).WithField("lottery_id", lottery.ID).Error("Failed to announce closed lottery")
		}
	}
}

// seedGauge reports the stored active snapshots so the gauge has a value
// before the first successful sync
func (w *LotterySyncWorker) seedGauge(ctx context.Context) error {
	if w.gauge == nil {
		return nil
	}

	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	active, err := uow.LotterySnapshotRepository().ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active snapshots: %w", err)
	}
	w.gauge.SetActiveLotteries(len(active))
	return nil
}

func (w *LotterySyncWorker) saveMessage(ctx context.Context, lotteryID uint64, channelID, messageID int64) error {
	uow := w.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.LotterySnapshotRepository().SetMessage(ctx, lotteryID, channelID, messageID); err != nil {
		return err
	}
	return uow.Commit()
}
