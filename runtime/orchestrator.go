// Package runtime runs the notification feed: insert notifications are
// published here and routed to the subscriptions of their channel.
// It orchestrates the workers without containing business logic or domain rules.
package runtime

import (
	"chat-channels/contract"
	"chat-channels/domain/chat"
	"chat-channels/domain/event"
	"chat-channels/errors"
	"chat-channels/runtime/workers"
	"chat-channels/sink"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type FeedConfig struct {
	BufferSize           int
	SubscriberBufferSize int
	SinkTimeout          time.Duration
	MetricInterval       time.Duration
	ReportInterval       time.Duration
	LatencyThreshold     time.Duration
	LowCapacityThreshold int
}

// Orchestrator is both ends of the notification feed: repositories publish
// into it, sessions subscribe to it.
type Orchestrator struct {
	mu              sync.Mutex
	log             *slog.Logger
	config          FeedConfig
	supervisor      contract.ISupervisor
	registry        *Registry
	permanentSinks  []contract.EventSink
	domainEvents    chan event.DomainEvent
	telemetryEvents chan event.Event
	counter         *event.Counter
	subscriptions   map[string]*sink.SubscriptionSink
	cancel          context.CancelFunc
	done            chan struct{}
	stopped         bool
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, registry *Registry,
	telemetryEvents chan event.Event, counter *event.Counter, config FeedConfig) *Orchestrator {
	return &Orchestrator{
		log:             log,
		config:          config,
		supervisor:      supervisor,
		registry:        registry,
		domainEvents:    make(chan event.DomainEvent, config.BufferSize),
		telemetryEvents: telemetryEvents,
		counter:         counter,
		subscriptions:   make(map[string]*sink.SubscriptionSink),
	}
}

// Add registers sinks receiving every event whatever its channel.
// Must be called before Start.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// Telemetry is the write end of the technical event channel.
func (o *Orchestrator) Telemetry() chan<- event.Event {
	return o.telemetryEvents
}

// Publish hands an event to the fanout. It only blocks while the buffer is
// full, bounded by ctx.
func (o *Orchestrator) Publish(ctx context.Context, e event.DomainEvent) error {
	o.mu.Lock()
	stopped := o.stopped
	o.mu.Unlock()
	if stopped {
		return errors.Wrap(errors.ErrSubscription, errors.ErrSubscriptionClosed)
	}
	select {
	case o.domainEvents <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe opens a subscription scoped to one channel.
func (o *Orchestrator) Subscribe(ctx context.Context, channelID chat.ChannelID) (contract.Subscription, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrSubscription, err)
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.stopped {
		return nil, errors.Wrap(errors.ErrSubscription, errors.ErrSubscriptionClosed)
	}

	id := uuid.NewString()
	s := sink.NewSubscriptionSink(id, channelID, o.config.SubscriberBufferSize, func(err error) {
		o.unsubscribe(id, channelID, err)
	})
	o.subscriptions[id] = s
	o.registry.Subscribe(id, channelID, s)
	o.log.Debug("Subscription opened", "subscription_id", id, "channel_id", channelID)
	return s, nil
}

func (o *Orchestrator) unsubscribe(id string, channelID chat.ChannelID, err error) {
	o.registry.Unsubscribe(id, channelID)
	o.mu.Lock()
	delete(o.subscriptions, id)
	o.mu.Unlock()

	if err != nil {
		event.Emit(o.telemetryEvents, event.SubscriptionDroppedType,
			event.SubscriptionDropped{Channel: channelID, Reason: err.Error()})
		return
	}
	o.log.Debug("Subscription closed", "subscription_id", id, "channel_id", channelID)
}

// Start prepares the workers and runs them under the supervisor in the
// background. Stop must be called to release them.
func (o *Orchestrator) Start(ctx context.Context) error {
	workerList := o.prepareWorkers()

	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return errors.ErrSubscriptionClosed
	}
	if o.done != nil {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator already started")
	}
	o.supervisor.Add(workerList...)
	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel
	o.done = make(chan struct{})
	done := o.done
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers", "workers", len(workerList))
	go func() {
		defer close(done)
		o.supervisor.Run(runCtx)
	}()
	return nil
}

func (o *Orchestrator) prepareWorkers() []contract.Worker {
	o.mu.Lock()
	permanentSinks := append([]contract.EventSink(nil), o.permanentSinks...)
	o.mu.Unlock()

	res := []contract.Worker{
		workers.NewEventFanout(o.log, permanentSinks, o.registry, o.domainEvents, o.config.SinkTimeout),
	}
	if o.telemetryEvents == nil {
		return res
	}
	handlers := []event.Handler{
		event.NewMessageSentHandler(o.log, o.counter),
		event.NewLatencyHandler(o.log, o.config.LatencyThreshold, o.counter),
		event.NewNotificationHandler(o.log, o.counter),
		event.NewChannelCapacityHandler(o.log, o.config.LowCapacityThreshold, o.counter),
		event.NewWorkerRestartedAfterPanicHandler(o.log, o.counter),
	}
	res = append(res, workers.NewTelemetryWorker(o.log, o.telemetryEvents, handlers))
	if o.config.MetricInterval > 0 {
		res = append(res, workers.NewChannelCapacityWorker(o.log, []workers.NamedChannel{
			workers.NewNamedChannel("domain_events", o.domainEvents),
			workers.NewNamedChannel("telemetry_events", o.telemetryEvents),
		}, o.telemetryEvents, o.config.MetricInterval))
	}
	if o.config.ReportInterval > 0 {
		res = append(res, workers.NewReporterWorker(o.log, o.counter, o.registry.Len, o.config.ReportInterval))
	}
	return res
}

// Stop initiates a graceful shutdown: workers are canceled, then every live
// subscription ends with ErrSubscription so their owners stop waiting.
func (o *Orchestrator) Stop() {
	o.log.Info("Requesting orchestrator shutdown")

	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	cancel, done := o.cancel, o.done
	subscriptions := make([]*sink.SubscriptionSink, 0, len(o.subscriptions))
	for _, s := range o.subscriptions {
		subscriptions = append(subscriptions, s)
	}
	o.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	o.supervisor.Stop()
	if done != nil {
		<-done
	}
	for _, s := range subscriptions {
		s.Fail(errors.Wrap(errors.ErrSubscription, errors.ErrSubscriptionClosed))
	}
	o.log.Debug("Orchestrator stopped")
}
