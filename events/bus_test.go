package events

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fortuneblock/domain/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_PublishDispatchesByType(t *testing.T) {
	t.Parallel()

	bus := NewBus()

	var (
		mu       sync.Mutex
		opened   []uint64
		closedCt int
	)
	require.NoError(t, bus.Subscribe(events.EventTypeLotteryOpened, func(ctx context.Context, event events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		opened = append(opened, event.(events.LotteryOpenedEvent).LotteryID)
		return nil
	}))
	require.NoError(t, bus.Subscribe(events.EventTypeLotteryClosed, func(ctx context.Context, event events.Event) error {
		mu.Lock()
		defer mu.Unlock()
		closedCt++
		return nil
	}))

	require.NoError(t, bus.Publish(events.LotteryOpenedEvent{LotteryID: 3}))
	require.NoError(t, bus.Publish(events.LotteryUpdatedEvent{LotteryID: 3}))
	bus.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint64{3}, opened)
	assert.Equal(t, 0, closedCt)
}

func TestBus_HandlerPanicIsRecovered(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	called := make(chan struct{}, 1)

	require.NoError(t, bus.Subscribe(events.EventTypeLotteryClosed, func(ctx context.Context, event events.Event) error {
		panic("boom")
	}))
	require.NoError(t, bus.Subscribe(events.EventTypeLotteryClosed, func(ctx context.Context, event events.Event) error {
		called <- struct{}{}
		return errors.New("logged, not returned")
	}))

	require.NoError(t, bus.Publish(events.LotteryClosedEvent{LotteryID: 1}))
	bus.Wait()

	select {
	case <-called:
	default:
		t.Fatal("second handler was not called")
	}
}
