package workers

import (
	"chat-channels/domain/event"
	"context"
	"log/slog"
	"time"
)

// ReporterWorker periodically logs the telemetry counters and the number of
// live subscriptions, and once more when it stops.
type ReporterWorker struct {
	log           *slog.Logger
	counter       *event.Counter
	subscriptions func() int
	interval      time.Duration
}

func NewReporterWorker(log *slog.Logger, counter *event.Counter, subscriptions func() int, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, counter: counter, subscriptions: subscriptions, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	startTime := time.Now()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.printStats(startTime)
			return nil
		case <-ticker.C:
			w.printStats(startTime)
		}
	}
}

func (w *ReporterWorker) printStats(startTime time.Time) {
	stats := w.counter.Snapshot()
	w.log.Info("Feed stats",
		"uptime", time.Since(startTime).Round(time.Second).String(),
		"subscriptions", w.subscriptions(),
		"messages_sent", stats[event.MessageSentType],
		"messages_appended", stats[event.MessageAppendedType],
		"notifications_discarded", stats[event.NotificationDiscardedType],
		"subscriptions_dropped", stats[event.SubscriptionDroppedType],
		"worker_restarts", stats[event.RestartedAfterPanicType],
	)
}
