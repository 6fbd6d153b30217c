package event

import (
	"log/slog"
	"time"
)

// LatencyHandler measures the send-to-display delay: the time between the
// insert of a message and its arrival in a session log through the feed.
type LatencyHandler struct {
	log              *slog.Logger
	latencyThreshold time.Duration
	counter          *Counter
}

func NewLatencyHandler(log *slog.Logger, latencyThreshold time.Duration, counter *Counter) *LatencyHandler {
	return &LatencyHandler{log: log, latencyThreshold: latencyThreshold, counter: counter}
}

func (h *LatencyHandler) Handle(e Event) {
	payload, ok := e.Payload.(MessageAppended)
	if !ok || e.Type != MessageAppendedType {
		return
	}
	h.counter.Increment(MessageAppendedType)
	leadTime := e.CreatedAt.Sub(payload.CreatedAt)

	h.log.Debug("telemetry: round trip latency",
		"channel_id", payload.Channel,
		"message_id", payload.MessageID,
		"lead_time_ms", leadTime.Milliseconds(),
	)

	if leadTime > h.latencyThreshold {
		h.log.Warn("high latency detected", "channel_id", payload.Channel, "lead_time", leadTime)
	}
}
