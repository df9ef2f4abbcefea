package application

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/events"
	"fortuneblock/domain/testhelpers"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func lotteryWithID(id uint64) interface{} {
	return mock.MatchedBy(func(l *entities.Lottery) bool { return l.ID == id })
}

func TestLotterySyncWorker_SyncOnce_NewLotteries(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := new(testhelpers.MockLotteryService)
	factory := newFakeUnitOfWorkFactory()

	first := testLottery(1, 100, alice)
	second := testLottery(2, 0)
	service.On("ListActiveLotteries", ctx).Return([]*entities.Lottery{first, second}, nil)

	factory.lotteries.On("GetByID", ctx, uint64(1)).Return(nil, nil)
	factory.lotteries.On("GetByID", ctx, uint64(2)).Return(nil, nil)
	factory.lotteries.On("Upsert", ctx, first).Return(nil)
	factory.lotteries.On("Upsert", ctx, second).Return(nil)
	factory.lotteries.On("MarkClosed", ctx, []uint64{1, 2}).Return([]*entities.Lottery{}, nil)

	worker := NewLotterySyncWorker(service, factory, nil, time.Minute)
	result, err := worker.SyncOnce(ctx)
	require.NoError(t, err)

	assert.Len(t, result.Opened, 2)
	assert.Empty(t, result.Updated)
	assert.Empty(t, result.Closed)

	published := factory.events()
	require.Len(t, published, 2)
	opened, ok := published[0].(events.LotteryOpenedEvent)
	require.True(t, ok)
	assert.Equal(t, uint64(1), opened.LotteryID)
	assert.Equal(t, 1, opened.ParticipantCount)
	assert.Equal(t, int64(100), opened.PrizePool.Int64())
	assert.Equal(t, 1, factory.commits)

	service.AssertExpectations(t)
	factory.lotteries.AssertExpectations(t)
}

func TestLotterySyncWorker_SyncOnce_UpdatesAndCloses(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := new(testhelpers.MockLotteryService)
	factory := newFakeUnitOfWorkFactory()
	announcer := new(mockAnnouncer)

	unchanged := testLottery(1, 100, alice)
	grown := testLottery(2, 300, alice, bob)
	service.On("ListActiveLotteries", ctx).Return([]*entities.Lottery{unchanged, grown}, nil)

	previousUnchanged := testLottery(1, 100, alice)
	previousUnchanged.SetMessage(10, 11)
	previousGrown := testLottery(2, 100, alice)
	previousGrown.SetMessage(10, 21)
	gone := testLottery(3, 500, bob)
	gone.Active = false
	gone.SetMessage(10, 31)

	factory.lotteries.On("GetByID", ctx, uint64(1)).Return(previousUnchanged, nil)
	factory.lotteries.On("GetByID", ctx, uint64(2)).Return(previousGrown, nil)
	factory.lotteries.On("Upsert", ctx, mock.Anything).Return(nil)
	factory.lotteries.On("MarkClosed", ctx, []uint64{1, 2}).Return([]*entities.Lottery{gone}, nil)

	announcer.On("UpdateLotteryAnnouncement", ctx, lotteryWithID(2)).Return(nil).Once()
	announcer.On("AnnounceLotteryClosed", ctx, lotteryWithID(3)).Return(nil).Once()

	worker := NewLotterySyncWorker(service, factory, announcer, time.Minute)
	result, err := worker.SyncOnce(ctx)
	require.NoError(t, err)

	assert.Empty(t, result.Opened)
	require.Len(t, result.Updated, 1)
	assert.Equal(t, uint64(2), result.Updated[0].ID)
	require.Len(t, result.Closed, 1)

	// tracked messages survive the refresh
	assert.True(t, unchanged.HasMessage())
	assert.Equal(t, int64(21), *grown.MessageID)

	published := factory.events()
	require.Len(t, published, 2)
	updated, ok := published[0].(events.LotteryUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, int64(100), updated.OldPrizePool.Int64())
	assert.Equal(t, int64(300), updated.NewPrizePool.Int64())
	assert.Equal(t, 1, updated.OldParticipantCount)
	assert.Equal(t, 2, updated.NewParticipantCount)

	closed, ok := published[1].(events.LotteryClosedEvent)
	require.True(t, ok)
	assert.Equal(t, uint64(3), closed.LotteryID)
	assert.Equal(t, 0, big.NewInt(500).Cmp(closed.FinalPrizePool))

	announcer.AssertExpectations(t)
	announcer.AssertNotCalled(t, "AnnounceLottery", mock.Anything, mock.Anything)
}

func TestLotterySyncWorker_SyncOnce_AnnouncesAndStoresMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := new(testhelpers.MockLotteryService)
	factory := newFakeUnitOfWorkFactory()
	announcer := new(mockAnnouncer)

	fresh := testLottery(7, 0)
	service.On("ListActiveLotteries", ctx).Return([]*entities.Lottery{fresh}, nil)
	factory.lotteries.On("GetByID", ctx, uint64(7)).Return(nil, nil)
	factory.lotteries.On("Upsert", ctx, fresh).Return(nil)
	factory.lotteries.On("MarkClosed", ctx, []uint64{7}).Return(nil, nil)
	factory.lotteries.On("SetMessage", ctx, uint64(7), int64(100), int64(200)).Return(nil).Once()

	announcer.On("AnnounceLottery", ctx, fresh).Return(int64(100), int64(200), nil).Once()

	worker := NewLotterySyncWorker(service, factory, announcer, 0)
	_, err := worker.SyncOnce(ctx)
	require.NoError(t, err)

	assert.True(t, fresh.HasMessage())
	assert.Equal(t, 2, factory.commits)
	factory.lotteries.AssertExpectations(t)
	announcer.AssertExpectations(t)
}

func TestLotterySyncWorker_SyncOnce_AnnounceFailureIsRetriedLater(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := new(testhelpers.MockLotteryService)
	factory := newFakeUnitOfWorkFactory()
	announcer := new(mockAnnouncer)

	fresh := testLottery(7, 0)
	service.On("ListActiveLotteries", ctx).Return([]*entities.Lottery{fresh}, nil)
	factory.lotteries.On("GetByID", ctx, uint64(7)).Return(nil, nil)
	factory.lotteries.On("Upsert", ctx, fresh).Return(nil)
	factory.lotteries.On("MarkClosed", ctx, []uint64{7}).Return(nil, nil)

	announcer.On("AnnounceLottery", ctx, fresh).Return(int64(0), int64(0), errors.New("discord down"))

	worker := NewLotterySyncWorker(service, factory, announcer, 0)
	_, err := worker.SyncOnce(ctx)
	require.NoError(t, err)

	assert.False(t, fresh.HasMessage())
	factory.lotteries.AssertNotCalled(t, "SetMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLotterySyncWorker_SyncOnce_Errors(t *testing.T) {
	t.Parallel()

	t.Run("contract unavailable", func(t *testing.T) {
		ctx := context.Background()
		service := new(testhelpers.MockLotteryService)
		factory := newFakeUnitOfWorkFactory()
		service.On("ListActiveLotteries", ctx).Return(nil, errors.New("rpc timeout"))

		_, err := NewLotterySyncWorker(service, factory, nil, 0).SyncOnce(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rpc timeout")
		assert.Zero(t, factory.commits)
	})

	t.Run("store failure drops events", func(t *testing.T) {
		ctx := context.Background()
		service := new(testhelpers.MockLotteryService)
		factory := newFakeUnitOfWorkFactory()

		first := testLottery(1, 100)
		second := testLottery(2, 100)
		service.On("ListActiveLotteries", ctx).Return([]*entities.Lottery{first, second}, nil)
		factory.lotteries.On("GetByID", ctx, mock.Anything).Return(nil, nil)
		factory.lotteries.On("Upsert", ctx, first).Return(nil)
		factory.lotteries.On("Upsert", ctx, second).Return(errors.New("disk full"))

		_, err := NewLotterySyncWorker(service, factory, nil, 0).SyncOnce(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "lottery 2")
		assert.Empty(t, factory.events())
		assert.Zero(t, factory.commits)
		assert.Equal(t, 1, factory.rollbacks)
	})

	t.Run("begin failure", func(t *testing.T) {
		ctx := context.Background()
		service := new(testhelpers.MockLotteryService)
		factory := newFakeUnitOfWorkFactory()
		factory.beginErr = errors.New("pool closed")
		service.On("ListActiveLotteries", ctx).Return([]*entities.Lottery{}, nil)

		_, err := NewLotterySyncWorker(service, factory, nil, 0).SyncOnce(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pool closed")
	})
}

func TestLotterySyncWorker_StartStop(t *testing.T) {
	t.Parallel()

	service := new(testhelpers.MockLotteryService)
	factory := newFakeUnitOfWorkFactory()

	synced := make(chan struct{}, 1)
	service.On("ListActiveLotteries", mock.Anything).
		Return(nil, errors.New("unreachable")).
		Run(func(mock.Arguments) {
			select {
			case synced <- struct{}{}:
			default:
			}
		})

	worker := NewLotterySyncWorker(service, factory, nil, time.Hour)
	stop := worker.Start(context.Background())

	select {
	case <-synced:
	case <-time.After(5 * time.Second):
		t.Fatal("worker did not sync on start")
	}
	stop()
}

func TestLotterySyncWorker_GaugeAcrossRestart(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := new(testhelpers.MockLotteryService)
	factory := newFakeUnitOfWorkFactory()
	gauge := &recordingGauge{}

	// Lottery 3 was stored as active before the restart and has since ended
	carriedOver := testLottery(3, 500, bob)
	factory.lotteries.On("ListActive", ctx).Return([]*entities.Lottery{carriedOver}, nil)
	service.On("ListActiveLotteries", ctx).Return([]*entities.Lottery{}, nil)
	factory.lotteries.On("MarkClosed", ctx, []uint64{}).Return([]*entities.Lottery{carriedOver}, nil)

	worker := NewLotterySyncWorker(service, factory, nil, time.Minute)
	worker.SetGauge(gauge)

	require.NoError(t, worker.seedGauge(ctx))
	result, err := worker.SyncOnce(ctx)
	require.NoError(t, err)

	require.Len(t, result.Closed, 1)
	assert.Equal(t, []int{1, 0}, gauge.reported())
}

func TestLotterySyncWorker_GaugeUntouchedOnFailedSync(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	service := new(testhelpers.MockLotteryService)
	factory := newFakeUnitOfWorkFactory()
	gauge := &recordingGauge{}
	service.On("ListActiveLotteries", ctx).Return(nil, errors.New("rpc timeout"))

	worker := NewLotterySyncWorker(service, factory, nil, time.Minute)
	worker.SetGauge(gauge)

	_, err := worker.SyncOnce(ctx)
	require.Error(t, err)
	assert.Empty(t, gauge.reported())
}

func TestNewLotterySyncWorker_DefaultInterval(t *testing.T) {
	t.Parallel()

	worker := NewLotterySyncWorker(nil, nil, nil, 0)
	assert.Equal(t, DefaultSyncInterval, worker.interval)
}
