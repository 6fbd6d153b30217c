package event

import (
	"chat-channels/domain/chat"
	"time"
)

type Type string

const (
	MessageSentType           Type = "MESSAGE_SENT"
	MessageAppendedType       Type = "MESSAGE_APPENDED"
	NotificationDiscardedType Type = "NOTIFICATION_DISCARDED"
	SubscriptionDroppedType   Type = "SUBSCRIPTION_DROPPED"
	RestartedAfterPanicType   Type = "WORKER_RESTARTED_AFTER_PANIC"
	ChannelCapacityType       Type = "CHANNEL_CAPACITY"
)

// Event is a technical event travelling on the telemetry channel.
// It never carries business decisions, only observations.
type Event struct {
	Type      Type
	CreatedAt time.Time
	Payload   any
}

type MessageSent struct {
	Channel chat.ChannelID
	UserID  chat.UserID
	// Censored counts the words masked before the insert
	Censored int
}

// MessageAppended is emitted once a notified message reached a session log.
type MessageAppended struct {
	Channel   chat.ChannelID
	MessageID chat.MessageID
	CreatedAt time.Time
}

// NotificationDiscarded is emitted when a notification resolved after its
// channel stopped being the active one.
type NotificationDiscarded struct {
	Channel       chat.ChannelID
	ActiveChannel chat.ChannelID
	MessageID     chat.MessageID
}

type SubscriptionDropped struct {
	Channel chat.ChannelID
	Reason  string
}

type WorkerRestartedAfterPanic struct {
	WorkerName string
}

type ChannelCapacity struct {
	ChannelName string
	Capacity    int
	Length      int
}

// Emit pushes evt without ever blocking the caller.
// A nil channel silently disables telemetry.
func Emit(telemetry chan<- Event, t Type, payload any) bool {
	if telemetry == nil {
		return false
	}
	select {
	case telemetry <- Event{Type: t, CreatedAt: time.Now().UTC(), Payload: payload}:
		return true
	default:
		return false
	}
}
