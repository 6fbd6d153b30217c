package workers

import (
	"chat-channels/domain/event"
	"context"
	"log/slog"
	"time"
)

// NamedChannel is a buffered channel exposed to the capacity monitor.
type NamedChannel struct {
	Name string
	Len  func() int
	Cap  func() int
}

func NewNamedChannel[T any](name string, ch chan T) NamedChannel {
	return NamedChannel{
		Name: name,
		Len:  func() int { return len(ch) },
		Cap:  func() int { return cap(ch) },
	}
}

// ChannelCapacityWorker periodically reports the fill level of the feed buffers.
// Reading len and cap is non-blocking. A dropped sample is fine since the
// next tick produces a fresh one.
type ChannelCapacityWorker struct {
	log            *slog.Logger
	channels       []NamedChannel
	telemetryChan  chan<- event.Event
	metricInterval time.Duration
}

func NewChannelCapacityWorker(log *slog.Logger,
	channels []NamedChannel, telemetryChan chan<- event.Event,
	metricInterval time.Duration) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:            log,
		channels:       channels,
		telemetryChan:  telemetryChan,
		metricInterval: metricInterval,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping capacity monitor")
			return nil
		case <-ticker.C:
			w.sample()
		}
	}
}

func (w *ChannelCapacityWorker) sample() {
	for _, nc := range w.channels {
		payload := event.ChannelCapacity{ChannelName: nc.Name, Capacity: nc.Cap(), Length: nc.Len()}
		if !event.Emit(w.telemetryChan, event.ChannelCapacityType, payload) {
			w.log.Debug("Observability telemetry event lost", "buffer", nc.Name)
		}
	}
}
