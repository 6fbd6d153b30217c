package session

import (
	"chat-channels/contract"
	"chat-channels/domain/chat"
	"chat-channels/domain/event"
	"chat-channels/errors"
	"context"
	"time"
)

// listen owns h.updates and h.done and closes both on exit.
func (s *Session) listen(ctx context.Context, h *Handle, subscription contract.Subscription) {
	defer func() {
		subscription.Close()
		close(h.updates)
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-subscription.Events():
			if !ok {
				if ctx.Err() != nil {
					return
				}
				next, err := s.resubscribe(ctx, h, subscription.Err())
				if err != nil {
					if ctx.Err() == nil {
						s.log.Error("Subscription lost for good", "channel_id", h.channel.ID, "error", err)
						s.fail(h, err)
					}
					return
				}
				subscription = next
				continue
			}
			if evt.Channel != h.channel.ID {
				s.discard(h, evt.MessageID)
				continue
			}
			message, ok := s.resolve(ctx, h, evt)
			if !ok {
				continue
			}
			if !s.append(ctx, h, message) {
				return
			}
		}
	}
}

// resolve fetches the notified message. The read is detached from ctx:
// closing the handle does not abort it, the result is checked against the
// active selection once it lands.
func (s *Session) resolve(ctx context.Context, h *Handle, evt event.MessageInserted) (chat.EnrichedMessage, bool) {
	result := make(chan chat.EnrichedMessage, 1)
	go func() {
		defer close(result)
		fetchCtx := context.WithoutCancel(ctx)
		message, err := s.messages.GetMessage(fetchCtx, evt.MessageID)
		if err != nil {
			s.log.Warn("Notified message fetch failed", "channel_id", h.channel.ID, "message_id", evt.MessageID, "error", err)
			return
		}
		if message.ChannelID != h.channel.ID || !s.isCurrent(h.generation) {
			s.discard(h, evt.MessageID)
			return
		}
		result <- chat.EnrichedMessage{Message: message, Sender: s.enricher.Enrich(fetchCtx, message.UserID)}
	}()

	select {
	case <-ctx.Done():
		return chat.EnrichedMessage{}, false
	case message, ok := <-result:
		return message, ok
	}
}

// append returns false only when ctx ended while waiting on a reader.
func (s *Session) append(ctx context.Context, h *Handle, message chat.EnrichedMessage) bool {
	if !s.isCurrent(h.generation) {
		s.discard(h, message.ID)
		return true
	}
	if !h.timeline.Append(message) {
		return true
	}
	event.Emit(s.telemetry, event.MessageAppendedType,
		event.MessageAppended{Channel: h.channel.ID, MessageID: message.ID, CreatedAt: message.CreatedAt})

	select {
	case h.updates <- message:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Session) resubscribe(ctx context.Context, h *Handle, cause error) (contract.Subscription, error) {
	if cause == nil {
		cause = errors.ErrSubscriptionClosed
	}
	s.log.Warn("Subscription lost, resubscribing", "channel_id", h.channel.ID, "error", cause)

	backoff := s.config.ResubscribeBackoff
	for attempt := 1; attempt <= s.config.ResubscribeAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2

		next, err := s.feed.Subscribe(ctx, h.channel.ID)
		if err != nil {
			cause = err
			s.log.Warn("Resubscribe failed", "channel_id", h.channel.ID, "attempt", attempt, "error", err)
			continue
		}
		if !s.resync(ctx, h) {
			next.Close()
			return nil, ctx.Err()
		}
		return next, nil
	}
	return nil, errors.Wrap(errors.ErrSubscription, cause)
}

// resync merges what was inserted while no subscription was open.
func (s *Session) resync(ctx context.Context, h *Handle) bool {
	history, err := s.loadHistory(ctx, h.channel.ID)
	if err != nil {
		s.log.Warn("Resync after resubscribe failed", "channel_id", h.channel.ID, "error", err)
		return true
	}
	for _, message := range h.timeline.Merge(history) {
		event.Emit(s.telemetry, event.MessageAppendedType,
			event.MessageAppended{Channel: h.channel.ID, MessageID: message.ID, CreatedAt: message.CreatedAt})
		select {
		case h.updates <- message:
		case <-ctx.Done():
			return false
		}
	}
	return true
}
