package event

import (
	"chat-channels/domain/chat"
	"time"
)

// DomainEvent is anything the notification feed can route to a channel.
type DomainEvent interface {
	ChannelID() chat.ChannelID
}

// MessageInserted is the change notification emitted for every row inserted
// in the message table. It is a pointer only: consumers re-fetch the row.
type MessageInserted struct {
	MessageID chat.MessageID
	Channel   chat.ChannelID
	At        time.Time
}

func (m MessageInserted) ChannelID() chat.ChannelID {
	return m.Channel
}
