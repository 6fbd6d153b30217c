package event

import (
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestHandlers_CountTheirOwnEvents(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	counter := NewCounter()
	handlers := []Handler{
		NewMessageSentHandler(log, counter),
		NewLatencyHandler(log, time.Second, counter),
		NewNotificationHandler(log, counter),
		NewWorkerRestartedAfterPanicHandler(log, counter),
		NewChannelCapacityHandler(log, 2, counter),
	}
	now := time.Now().UTC()
	events := []Event{
		{Type: MessageSentType, CreatedAt: now, Payload: MessageSent{Channel: "c1", UserID: "alice"}},
		{Type: MessageSentType, CreatedAt: now, Payload: MessageSent{Channel: "c1", UserID: "bob"}},
		{Type: MessageAppendedType, CreatedAt: now, Payload: MessageAppended{Channel: "c1", MessageID: "m1", CreatedAt: now.Add(-10 * time.Millisecond)}},
		{Type: NotificationDiscardedType, CreatedAt: now, Payload: NotificationDiscarded{Channel: "c1", ActiveChannel: "c2", MessageID: "m2"}},
		{Type: SubscriptionDroppedType, CreatedAt: now, Payload: SubscriptionDropped{Channel: "c1", Reason: "slow"}},
		{Type: RestartedAfterPanicType, CreatedAt: now, Payload: WorkerRestartedAfterPanic{WorkerName: "EventFanout"}},
		{Type: ChannelCapacityType, CreatedAt: now, Payload: ChannelCapacity{ChannelName: "inserted", Capacity: 10, Length: 9}},
		{Type: ChannelCapacityType, CreatedAt: now, Payload: ChannelCapacity{ChannelName: "inserted", Capacity: 10, Length: 1}},
	}

	for _, e := range events {
		for _, h := range handlers {
			h.Handle(e)
		}
	}

	req.Equal(uint64(2), counter.Get(MessageSentType))
	req.Equal(uint64(1), counter.Get(MessageAppendedType))
	req.Equal(uint64(1), counter.Get(NotificationDiscardedType))
	req.Equal(uint64(1), counter.Get(SubscriptionDroppedType))
	req.Equal(uint64(1), counter.Get(RestartedAfterPanicType))
	// Only the nearly full sample is counted
	req.Equal(uint64(1), counter.Get(ChannelCapacityType))
}

func TestHandlers_IgnoreInvalidPayload(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	counter := NewCounter()

	NewMessageSentHandler(log, counter).Handle(Event{Type: MessageSentType, Payload: "nope"})
	NewNotificationHandler(log, counter).Handle(Event{Type: NotificationDiscardedType, Payload: 42})

	req.Empty(counter.Snapshot())
}

func TestEmit_NeverBlocks(t *testing.T) {
	req := require.New(t)
	telemetry := make(chan Event, 1)

	req.True(Emit(telemetry, MessageSentType, MessageSent{}))
	// Buffer is full, event is dropped instead of blocking
	req.False(Emit(telemetry, MessageSentType, MessageSent{}))
	req.False(Emit(nil, MessageSentType, MessageSent{}))
	req.Len(telemetry, 1)
}
