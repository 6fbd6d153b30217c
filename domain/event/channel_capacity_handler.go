package event

import (
	"chat-channels/errors"
	"log/slog"
)

// ChannelCapacityHandler watches the fill level of the feed's internal
// buffers. A nearly full notification buffer means subscribers are about to
// miss inserts, so it is reported before it happens.
type ChannelCapacityHandler struct {
	log                  *slog.Logger
	lowCapacityThreshold int
	counter              *Counter
}

func NewChannelCapacityHandler(log *slog.Logger, lowCapacityThreshold int, counter *Counter) *ChannelCapacityHandler {
	return &ChannelCapacityHandler{log: log, lowCapacityThreshold: lowCapacityThreshold, counter: counter}
}

func (h ChannelCapacityHandler) Handle(event Event) {
	if event.Type != ChannelCapacityType {
		return
	}
	payload, ok := event.Payload.(ChannelCapacity)
	if !ok {
		h.log.Error(errors.ErrInvalidPayload.Error())
		return
	}
	h.log.Debug("buffer usage", "buffer", payload.ChannelName, "length", payload.Length, "capacity", payload.Capacity)
	if payload.Capacity <= 0 {
		// unbuffered
		return
	}
	capacityLeft := payload.Capacity - payload.Length
	if capacityLeft <= h.lowCapacityThreshold {
		h.counter.Increment(ChannelCapacityType)
		h.log.Warn("buffer nearly full", "buffer", payload.ChannelName, "capacity_left", capacityLeft)
	}
}
