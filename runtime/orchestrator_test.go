package runtime_test

import (
	"chat-channels/domain/chat"
	"chat-channels/domain/event"
	"chat-channels/errors"
	"chat-channels/runtime"
	"chat-channels/runtime/workers"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func newFeed(t *testing.T, subscriberBufferSize int) (*runtime.Orchestrator, *event.Counter) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	telemetry := make(chan event.Event, 100)
	counter := event.NewCounter()
	orchestrator := runtime.NewOrchestrator(log,
		workers.NewSupervisor(log, telemetry, 10*time.Millisecond),
		runtime.NewRegistry(), telemetry, counter,
		runtime.FeedConfig{
			BufferSize:           10,
			SubscriberBufferSize: subscriberBufferSize,
			SinkTimeout:          100 * time.Millisecond,
			LatencyThreshold:     time.Second,
			LowCapacityThreshold: 1,
		})
	require.NoError(t, orchestrator.Start(context.Background()))
	t.Cleanup(orchestrator.Stop)
	return orchestrator, counter
}

func Test_Orchestrator_Routes_Inserts_To_Channel_Subscribers(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	feed, _ := newFeed(t, 10)

	// Given one subscription on general and one on random
	general, err := feed.Subscribe(ctx, "general")
	req.NoError(err)
	random, err := feed.Subscribe(ctx, "random")
	req.NoError(err)

	// When an insert is published on general
	req.NoError(feed.Publish(ctx, event.MessageInserted{MessageID: "m1", Channel: "general"}))

	// Then only the general subscription sees it
	select {
	case evt := <-general.Events():
		req.Equal("m1", string(evt.MessageID))
	case <-time.After(time.Second):
		req.Fail("Notification not delivered")
	}
	select {
	case <-random.Events():
		req.Fail("Notification leaked to another channel")
	case <-time.After(50 * time.Millisecond):
	}
}

func Test_Orchestrator_Closed_Subscription_Receives_Nothing(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	feed, _ := newFeed(t, 10)

	subscription, err := feed.Subscribe(ctx, "general")
	req.NoError(err)

	// When the owner closes it
	subscription.Close()
	req.NoError(feed.Publish(ctx, event.MessageInserted{MessageID: "m1", Channel: "general"}))

	// Then the stream is closed without error
	_, ok := <-subscription.Events()
	req.False(ok)
	req.NoError(subscription.Err())
}

func Test_Orchestrator_Drops_Slow_Subscriber(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	feed, counter := newFeed(t, 1)

	subscription, err := feed.Subscribe(ctx, "general")
	req.NoError(err)

	// When more inserts arrive than the subscriber buffers
	for _, id := range []string{"m1", "m2", "m3"} {
		req.NoError(feed.Publish(ctx, event.MessageInserted{MessageID: chat.MessageID(id), Channel: "general"}))
	}

	// Then the subscription ends with a subscription error
	req.Eventually(func() bool {
		return subscription.Err() != nil
	}, time.Second, 10*time.Millisecond)
	req.ErrorIs(subscription.Err(), errors.ErrSubscription)
	// And the drop is counted
	req.Eventually(func() bool {
		return counter.Get(event.SubscriptionDroppedType) == 1
	}, time.Second, 10*time.Millisecond)
}

func Test_Orchestrator_Stop_Ends_Subscriptions(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	feed, _ := newFeed(t, 10)

	subscription, err := feed.Subscribe(ctx, "general")
	req.NoError(err)

	feed.Stop()

	_, ok := <-subscription.Events()
	req.False(ok)
	req.ErrorIs(subscription.Err(), errors.ErrSubscription)
	_, err = feed.Subscribe(ctx, "general")
	req.ErrorIs(err, errors.ErrSubscription)
	req.ErrorIs(feed.Publish(ctx, event.MessageInserted{Channel: "general"}), errors.ErrSubscription)
}
