package application

import (
	"context"
	"math/big"
	"sync"
	"time"

	"fortuneblock/domain/entities"
	"fortuneblock/domain/events"
	"fortuneblock/domain/interfaces"
	"fortuneblock/domain/testhelpers"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"
)

// fakeUnitOfWork hands out shared mock repositories and holds events until commit
type fakeUnitOfWork struct {
	factory *fakeUnitOfWorkFactory
	pending []events.Event
	done    bool
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error {
	return u.factory.beginErr
}

func (u *fakeUnitOfWork) Commit() error {
	u.factory.mu.Lock()
	defer u.factory.mu.Unlock()
	u.factory.published = append(u.factory.published, u.pending...)
	u.factory.commits++
	u.pending = nil
	u.done = true
	return nil
}

func (u *fakeUnitOfWork) Rollback() error {
	if !u.done {
		u.pending = nil
		u.factory.mu.Lock()
		u.factory.rollbacks++
		u.factory.mu.Unlock()
	}
	u.done = true
	return nil
}

func (u *fakeUnitOfWork) LotterySnapshotRepository() interfaces.LotterySnapshotRepository {
	return u.factory.lotteries
}

func (u *fakeUnitOfWork) ProfileSnapshotRepository() interfaces.ProfileSnapshotRepository {
	return u.factory.profiles
}

func (u *fakeUnitOfWork) ContractTransactionRepository() interfaces.ContractTransactionRepository {
	return u.factory.transactions
}

func (u *fakeUnitOfWork) WalletLinkRepository() interfaces.WalletLinkRepository {
	return u.factory.walletLinks
}

func (u *fakeUnitOfWork) EventBus() interfaces.EventPublisher {
	return u
}

func (u *fakeUnitOfWork) Publish(event events.Event) error {
	u.pending = append(u.pending, event)
	return nil
}

type fakeUnitOfWorkFactory struct {
	lotteries    *testhelpers.MockLotterySnapshotRepository
	profiles     *testhelpers.MockProfileSnapshotRepository
	transactions *testhelpers.MockContractTransactionRepository
	walletLinks  *testhelpers.MockWalletLinkRepository
	beginErr     error

	mu        sync.Mutex
	published []events.Event
	commits   int
	rollbacks int
}

func newFakeUnitOfWorkFactory() *fakeUnitOfWorkFactory {
	return &fakeUnitOfWorkFactory{
		lotteries:    new(testhelpers.MockLotterySnapshotRepository),
		profiles:     new(testhelpers.MockProfileSnapshotRepository),
		transactions: new(testhelpers.MockContractTransactionRepository),
		walletLinks:  new(testhelpers.MockWalletLinkRepository),
	}
}

func (f *fakeUnitOfWorkFactory) Create() UnitOfWork {
	return &fakeUnitOfWork{factory: f}
}

func (f *fakeUnitOfWorkFactory) events() []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]events.Event(nil), f.published...)
}

// mockAnnouncer is a mock implementation of LotteryAnnouncer
type mockAnnouncer struct {
	mock.Mock
}

func (m *mockAnnouncer) AnnounceLottery(ctx context.Context, lottery *entities.Lottery) (int64, int64, error) {
	args := m.Called(ctx, lottery)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

func (m *mockAnnouncer) UpdateLotteryAnnouncement(ctx context.Context, lottery *entities.Lottery) error {
	args := m.Called(ctx, lottery)
	return args.Error(0)
}

func (m *mockAnnouncer) AnnounceLotteryClosed(ctx context.Context, lottery *entities.Lottery) error {
	args := m.Called(ctx, lottery)
	return args.Error(0)
}

func testLottery(id uint64, poolWei int64, participants ...common.Address) *entities.Lottery {
	return &entities.Lottery{
		ID:           id,
		EndTime:      time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		PrizePool:    big.NewInt(poolWei),
		Participants: participants,
		Active:       true,
		FetchedAt:    time.Now().UTC(),
	}
}

// recordingGauge keeps every active lottery count it is given
type recordingGauge struct {
	mu     sync.Mutex
	values []int
}

func (g *recordingGauge) SetActiveLotteries(count int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.values = append(g.values, count)
}

func (g *recordingGauge) reported() []int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]int(nil), g.values...)
}
