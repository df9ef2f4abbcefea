package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"fortuneblock/domain/events"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishedMessage struct {
	subject string
	data    []byte
}

// fakeMessageBus records published messages and delivers them to subscribers
type fakeMessageBus struct {
	published  []publishedMessage
	publishErr error
	handlers   map[string]func([]byte) error
}

func newFakeMessageBus() *fakeMessageBus {
	return &fakeMessageBus{handlers: make(map[string]func([]byte) error)}
}

func (f *fakeMessageBus) Publish(ctx context.Context, subject string, data []byte) error {
	if f.publishErr != nil {
		return f.publishErr
	}
	f.published = append(f.published, publishedMessage{subject: subject, data: data})
	return nil
}

func (f *fakeMessageBus) Subscribe(subject string, handler func([]byte) error) error {
	f.handlers[subject] = handler
	return nil
}

func (f *fakeMessageBus) deliver(msg publishedMessage) error {
	handler, ok := f.handlers[msg.subject]
	if !ok {
		return errors.New("no subscriber")
	}
	return handler(msg.data)
}

func TestNATSEventPublisher_Publish(t *testing.T) {
	t.Parallel()

	bus := newFakeMessageBus()
	publisher := NewNATSEventPublisher(bus, NewEventSubjectMapper(), "fortuneblock-test")

	event := events.DepositConfirmedEvent{
		LotteryID:   3,
		Depositor:   common.HexToAddress("0x00000000000000000000000000000000000000a1"),
		Amount:      big.NewInt(1_500_000_000_000_000_000),
		TxHash:      common.HexToHash("0xabc"),
		BlockNumber: 42,
		Success:     true,
	}
	require.NoError(t, publisher.Publish(event))

	require.Len(t, bus.published, 1)
	assert.Equal(t, "lottery.deposit.confirmed", bus.published[0].subject)

	var envelope EventEnvelope
	require.NoError(t, json.Unmarshal(bus.published[0].data, &envelope))
	assert.NotEmpty(t, envelope.EventID)
	assert.Equal(t, "deposit_confirmed", envelope.EventType)
	assert.Equal(t, "fortuneblock-test", envelope.SourceService)

	decoded, err := envelope.DecodeEvent()
	require.NoError(t, err)
	dep := decoded.(events.DepositConfirmedEvent)
	assert.Equal(t, event.TxHash, dep.TxHash)
	assert.Equal(t, event.Depositor, dep.Depositor)
	assert.Equal(t, 0, event.Amount.Cmp(dep.Amount))
}

func TestNATSEventPublisher_LocalHandlers(t *testing.T) {
	t.Parallel()

	bus := newFakeMessageBus()
	publisher := NewNATSEventPublisher(bus, NewEventSubjectMapper(), "test")

	var received []events.Event
	publisher.RegisterLocalHandler(events.EventTypeLotteryOpened, func(ctx context.Context, event events.Event) error {
		received = append(received, event)
		return errors.New("handler failure is only logged")
	})

	require.NoError(t, publisher.Publish(events.LotteryOpenedEvent{LotteryID: 1}))
	require.NoError(t, publisher.Publish(events.LotteryClosedEvent{LotteryID: 1}))

	assert.Len(t, received, 1)
	assert.Len(t, bus.published, 2)
}

func TestNATSEventPublisher_PublishErrors(t *testing.T) {
	t.Parallel()

	bus := newFakeMessageBus()
	publisher := NewNATSEventPublisher(bus, NewEventSubjectMapper(), "test")

	bus.publishErr = errors.New("nats: no response from stream")
	assert.NoError(t, publisher.Publish(events.LotteryOpenedEvent{LotteryID: 1}))

	bus.publishErr = errors.New("nats: connection closed")
	err := publisher.Publish(events.LotteryOpenedEvent{LotteryID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish event to NATS")
}

func TestNATSEventSubscriber_RoundTrip(t *testing.T) {
	t.Parallel()

	bus := newFakeMessageBus()
	mapper := NewEventSubjectMapper()
	publisher := NewNATSEventPublisher(bus, mapper, "test")
	subscriber := NewNATSEventSubscriber(bus, mapper)

	var got events.Event
	require.NoError(t, subscriber.Subscribe(events.EventTypeUsernameRegistered, func(ctx context.Context, event events.Event) error {
		got = event
		return nil
	}))

	sent := events.UsernameRegisteredEvent{
		Address:     common.HexToAddress("0x00000000000000000000000000000000000000b2"),
		Username:    "bob",
		TxHash:      common.HexToHash("0xdef"),
		BlockNumber: 7,
		Success:     true,
	}
	require.NoError(t, publisher.Publish(sent))
	require.Len(t, bus.published, 1)
	require.NoError(t, bus.deliver(bus.published[0]))

	assert.Equal(t, sent, got)
}

func TestNATSEventSubscriber_BadMessages(t *testing.T) {
	t.Parallel()

	subscriber := NewNATSEventSubscriber(newFakeMessageBus(), NewEventSubjectMapper())

	err := subscriber.handleMessage("lottery.opened", []byte("not json"))
	assert.Error(t, err)

	err = subscriber.handleMessage("lottery.opened", []byte(`{"event_type":"mystery","payload":{}}`))
	assert.Error(t, err)

	// Valid envelope but nobody subscribed
	err = subscriber.handleMessage("lottery.opened", []byte(`{"event_type":"lottery_opened","payload":{"lottery_id":1}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no handler registered")
}

func TestNATSEventSubscriber_SharedSubject(t *testing.T) {
	t.Parallel()

	bus := newFakeMessageBus()
	subscribes := 0
	counting := &countingSubscriber{fakeMessageBus: bus, count: &subscribes}
	mapper := NewEventSubjectMapper()
	publisher := NewNATSEventPublisher(bus, mapper, "test")
	subscriber := NewNATSEventSubscriber(counting, mapper)

	var calls []string
	require.NoError(t, subscriber.Subscribe(events.EventTypeLotteryClosed, func(ctx context.Context, event events.Event) error {
		calls = append(calls, "recorder")
		return errors.New("database unavailable")
	}))
	require.NoError(t, subscriber.Subscribe(events.EventTypeLotteryClosed, func(ctx context.Context, event events.Event) error {
		calls = append(calls, "metrics")
		return nil
	}))
	assert.Equal(t, 1, subscribes)

	require.NoError(t, publisher.Publish(events.LotteryClosedEvent{LotteryID: 2}))
	err := bus.deliver(bus.published[0])

	// Both handlers ran and the failure is reported for redelivery
	assert.Equal(t, []string{"recorder", "metrics"}, calls)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")
}

type countingSubscriber struct {
	*fakeMessageBus
	count *int
}

func (c *countingSubscriber) Subscribe(subject string, handler func([]byte) error) error {
	*c.count++
	return c.fakeMessageBus.Subscribe(subject, handler)
}
