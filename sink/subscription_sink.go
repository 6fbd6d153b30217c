// Package sink holds the consumers the fanout delivers domain events to.
package sink

import (
	"chat-channels/domain/chat"
	"chat-channels/domain/event"
	"chat-channels/errors"
	"context"
	"sync"
)

// SubscriptionSink is the per-subscriber end of the notification feed.
// The fanout pushes into a bounded buffer and never waits on a slow reader:
// a full buffer ends the subscription with ErrSubscription so the owner
// knows it missed notifications and must resync.
type SubscriptionSink struct {
	ID        string
	channelID chat.ChannelID
	events    chan event.MessageInserted
	onClose   func(err error)

	mu     sync.Mutex
	closed bool
	err    error
}

// NewSubscriptionSink builds a sink. onClose runs once, outside any lock,
// with the error that ended the subscription (nil on a plain Close).
func NewSubscriptionSink(id string, channelID chat.ChannelID, bufferSize int, onClose func(err error)) *SubscriptionSink {
	return &SubscriptionSink{
		ID:        id,
		channelID: channelID,
		events:    make(chan event.MessageInserted, bufferSize),
		onClose:   onClose,
	}
}

// Consume is called by the fanout.
// Events for other channels are ignored so a misrouted event can never leak.
func (s *SubscriptionSink) Consume(ctx context.Context, e event.DomainEvent) error {
	inserted, ok := e.(event.MessageInserted)
	if !ok || inserted.Channel != s.channelID {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.ErrSubscriptionClosed
	}
	select {
	case s.events <- inserted:
		s.mu.Unlock()
		return nil
	default:
		s.mu.Unlock()
		err := errors.Wrap(errors.ErrSubscription, errors.ErrSubscriberTooSlow)
		s.Fail(err)
		return err
	}
}

func (s *SubscriptionSink) Events() <-chan event.MessageInserted {
	return s.events
}

func (s *SubscriptionSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close ends the subscription on behalf of its owner. Idempotent.
func (s *SubscriptionSink) Close() {
	s.end(nil)
}

// Fail ends the subscription with err. Only the first end is recorded.
func (s *SubscriptionSink) Fail(err error) {
	s.end(err)
}

func (s *SubscriptionSink) end(err error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.err = err
	close(s.events)
	s.mu.Unlock()

	if s.onClose != nil {
		s.onClose(err)
	}
}
