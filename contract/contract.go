//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-channels/domain/chat"
	"chat-channels/domain/event"
	"context"
	"reflect"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging and supervision purposes, avoiding the need for manual
// naming in the Worker interface.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// EventSink receives the domain events routed to it by the fanout.
// Consume must honour ctx, the fanout bounds every delivery with a timeout.
type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

// IRegistry routes a channel to the sinks of its live subscriptions.
type IRegistry interface {
	GetSinksForChannel(channelID chat.ChannelID) []EventSink
	Subscribe(subscriptionID string, channelID chat.ChannelID, sink EventSink)
	Unsubscribe(subscriptionID string, channelID chat.ChannelID)
}

// EventPublisher is the write side of the notification feed.
type EventPublisher interface {
	Publish(ctx context.Context, e event.DomainEvent) error
}

// Subscription is a live, channel scoped stream of insert notifications.
// Events is closed when the subscription ends; Err then tells why
// (nil when the owner closed it).
type Subscription interface {
	Events() <-chan event.MessageInserted
	Err() error
	Close()
}

// INotificationFeed is the read side of the notification feed.
type INotificationFeed interface {
	Subscribe(ctx context.Context, channelID chat.ChannelID) (Subscription, error)
}

// IProfileEnricher resolves sender profiles at read time.
// It never fails: unknown users come back as the sentinel profile.
type IProfileEnricher interface {
	Enrich(ctx context.Context, userID chat.UserID) chat.Profile
	EnrichMessages(ctx context.Context, messages []chat.Message) []chat.EnrichedMessage
}

// IContentFilter rewrites outgoing content and reports what it masked.
type IContentFilter interface {
	Censor(content string) (string, []string)
}
