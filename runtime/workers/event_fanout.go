package workers

import (
	"chat-channels/contract"
	"chat-channels/domain/event"
	"context"
	"log/slog"
	"time"
)

// EventFanout delivers every published domain event to the sinks the
// registry holds for the event's channel, plus the permanent sinks.
//
// Deliveries for one event happen one sink after the other, each bounded
// by sinkTimeout, so a sink sees the events of a channel in publish order
// and a stuck sink can delay the others by at most sinkTimeout.
type EventFanout struct {
	log            *slog.Logger
	permanentSinks []contract.EventSink
	registry       contract.IRegistry
	domainEvents   chan event.DomainEvent
	sinkTimeout    time.Duration
}

func NewEventFanout(log *slog.Logger,
	permanentSinks []contract.EventSink,
	registry contract.IRegistry,
	domainEvents chan event.DomainEvent,
	sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:            log,
		permanentSinks: permanentSinks,
		registry:       registry,
		domainEvents:   domainEvents,
		sinkTimeout:    sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.domainEvents:
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout One delivery per sink
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	sinks := append(append([]contract.EventSink(nil), w.permanentSinks...),
		w.registry.GetSinksForChannel(evt.ChannelID())...)
	for _, sink := range sinks {
		w.deliver(ctx, sink, evt)
	}
}

func (w *EventFanout) deliver(ctx context.Context, sink contract.EventSink, evt event.DomainEvent) {
	sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
	defer cancel()
	if err := sink.Consume(sinkCtx, evt); err != nil {
		w.log.Debug("Sink rejected event", "channel_id", evt.ChannelID(), "error", err)
	}
}
