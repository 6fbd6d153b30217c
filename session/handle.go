package session

import (
	"chat-channels/domain/chat"
	"chat-channels/projection"
	"context"
	"sync"
)

// Handle is the view of one selected channel. It stays valid until the
// session selects another channel, is closed, or loses its subscription
// for good; Done is closed in every case.
type Handle struct {
	session    *Session
	generation uint64
	channel    chat.Channel
	timeline   *projection.Timeline
	updates    chan chat.EnrichedMessage
	done       chan struct{}
	cancel     context.CancelFunc

	mu  sync.Mutex
	err error
}

func newHandle(s *Session, generation uint64, channel chat.Channel, buffer int) *Handle {
	if buffer <= 0 {
		buffer = 1
	}
	return &Handle{
		session:    s,
		generation: generation,
		channel:    channel,
		timeline:   projection.NewTimeline(channel.ID),
		updates:    make(chan chat.EnrichedMessage, buffer),
		done:       make(chan struct{}),
		cancel:     func() {},
	}
}

func (h *Handle) Channel() chat.Channel {
	return h.channel
}

// Messages returns a snapshot of the log, ordered by creation time.
func (h *Handle) Messages() []chat.EnrichedMessage {
	return h.timeline.Messages()
}

// Updates yields every message appended after the handle was returned.
// It is closed with Done. Readers must drain it, the listener waits on it.
func (h *Handle) Updates() <-chan chat.EnrichedMessage {
	return h.updates
}

func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err reports why the handle ended on its own. Nil after a regular close.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Close is a no-op once another channel has been selected.
func (h *Handle) Close() {
	h.session.closeHandle(h)
}

func (h *Handle) setErr(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.err == nil {
		h.err = err
	}
}
