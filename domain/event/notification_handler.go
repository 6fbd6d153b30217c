package event

import (
	"chat-channels/errors"
	"log/slog"
)

// NotificationHandler keeps track of notifications that never reached a log,
// either because the user switched channel while the re-fetch was in flight
// or because the subscription itself was dropped.
type NotificationHandler struct {
	log     *slog.Logger
	counter *Counter
}

func NewNotificationHandler(log *slog.Logger, counter *Counter) *NotificationHandler {
	return &NotificationHandler{log: log, counter: counter}
}

func (h *NotificationHandler) Handle(event Event) {
	switch event.Type {
	case NotificationDiscardedType:
		payload, ok := event.Payload.(NotificationDiscarded)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(NotificationDiscardedType)
		h.log.Debug("stale notification discarded",
			"channel_id", payload.Channel,
			"active_channel_id", payload.ActiveChannel,
			"message_id", payload.MessageID)
	case SubscriptionDroppedType:
		payload, ok := event.Payload.(SubscriptionDropped)
		if !ok {
			h.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		h.counter.Increment(SubscriptionDroppedType)
		h.log.Warn("subscription dropped", "channel_id", payload.Channel, "reason", payload.Reason)
	}
}
