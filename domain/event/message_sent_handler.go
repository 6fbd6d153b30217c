package event

import (
	"chat-channels/errors"
	"log/slog"
	"sync"
)

// MessageSentHandler handles events when a message insert was acknowledged.
// Useful for updating observability metrics, logging, or telemetry.
type MessageSentHandler struct {
	log     *slog.Logger
	mu      sync.Mutex
	counter *Counter
}

func NewMessageSentHandler(log *slog.Logger, counter *Counter) *MessageSentHandler {
	return &MessageSentHandler{log: log, counter: counter}
}

func (p *MessageSentHandler) Handle(event Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch event.Type {
	case MessageSentType:
		payload, ok := event.Payload.(MessageSent)
		if !ok {
			p.log.Error(errors.ErrInvalidPayload.Error())
			return
		}
		p.counter.Increment(MessageSentType)
		if payload.Censored > 0 {
			p.log.Info("Message censored", "channel_id", payload.Channel, "user_id", payload.UserID, "words", payload.Censored)
		}
	}
}
