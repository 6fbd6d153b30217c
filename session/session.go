// Package session keeps the log of the active channel in sync with the
// notification feed. A Session owns at most one subscription at a time and
// hands out a Handle per selected channel.
package session

import (
	"chat-channels/contract"
	"chat-channels/domain/chat"
	"chat-channels/domain/event"
	"chat-channels/errors"
	"chat-channels/repositories"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StateSubscribed
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubscribed:
		return "subscribed"
	case StateClosing:
		return "closing"
	default:
		return "unknown"
	}
}

type Config struct {
	// MaxContentLength is counted in runes, zero disables the check.
	MaxContentLength    int
	SendAttempts        int
	SendBackoff         time.Duration
	ResubscribeAttempts int
	ResubscribeBackoff  time.Duration
	UpdatesBuffer       int
}

func DefaultConfig() Config {
	return Config{
		MaxContentLength:    4000,
		SendAttempts:        3,
		SendBackoff:         100 * time.Millisecond,
		ResubscribeAttempts: 3,
		ResubscribeBackoff:  200 * time.Millisecond,
		UpdatesBuffer:       64,
	}
}

type Session struct {
	log       *slog.Logger
	userID    chat.UserID
	messages  repositories.IMessageRepository
	enricher  contract.IProfileEnricher
	feed      contract.INotificationFeed
	telemetry chan<- event.Event
	filter    contract.IContentFilter
	config    Config

	// opMu serializes Select and Close so that closing always completes
	// before the next load begins.
	opMu sync.Mutex

	mu         sync.Mutex
	state      State
	generation uint64
	active     *Handle
}

type Option func(*Session)

// WithContentFilter rewrites the content of every sent message.
func WithContentFilter(filter contract.IContentFilter) Option {
	return func(s *Session) {
		s.filter = filter
	}
}

func NewSession(log *slog.Logger, userID chat.UserID,
	messages repositories.IMessageRepository,
	enricher contract.IProfileEnricher,
	feed contract.INotificationFeed,
	telemetry chan<- event.Event,
	config Config,
	opts ...Option) *Session {
	if config.SendAttempts < 1 {
		config.SendAttempts = 1
	}
	s := &Session{
		log:       log.With("user_id", userID),
		userID:    userID,
		messages:  messages,
		enricher:  enricher,
		feed:      feed,
		telemetry: telemetry,
		config:    config,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) UserID() chat.UserID {
	return s.userID
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Active returns the handle of the selected channel, nil when idle.
func (s *Session) Active() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Select makes channel the active one. The previous subscription is fully
// closed first, then history is loaded and a subscription scoped to the
// channel is opened. On error the session is left idle.
func (s *Session) Select(ctx context.Context, channel chat.Channel) (*Handle, error) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.closeActive()

	s.mu.Lock()
	s.generation++
	generation := s.generation
	s.state = StateLoading
	s.mu.Unlock()

	h := newHandle(s, generation, channel, s.config.UpdatesBuffer)
	history, err := s.loadHistory(ctx, channel.ID)
	if err != nil {
		s.toIdle(generation)
		return nil, errors.Wrap(errors.ErrFetch, err)
	}
	h.timeline.Load(history)
	s.setState(generation, StateReady)

	subscription, err := s.feed.Subscribe(ctx, channel.ID)
	if err != nil {
		s.toIdle(generation)
		return nil, errors.Wrap(errors.ErrSubscription, err)
	}
	// Inserts committed between the history load and the subscription are
	// only visible through a second read.
	if missed, err := s.loadHistory(ctx, channel.ID); err == nil {
		h.timeline.Merge(missed)
	}

	listenerCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	h.cancel = cancel

	s.mu.Lock()
	s.state = StateSubscribed
	s.active = h
	s.mu.Unlock()

	go s.listen(listenerCtx, h, subscription)
	s.log.Debug("Channel selected", "channel_id", channel.ID, "messages", h.timeline.Len())
	return h, nil
}

// Close cancels the open subscription and returns to idle. Idempotent.
func (s *Session) Close() {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.closeActive()
}

func (s *Session) closeActive() {
	s.mu.Lock()
	h := s.active
	if h == nil {
		s.state = StateIdle
		s.mu.Unlock()
		return
	}
	s.state = StateClosing
	// Invalidates every in-flight fetch of the closing handle
	s.generation++
	s.active = nil
	s.mu.Unlock()

	h.cancel()
	<-h.done

	s.mu.Lock()
	if s.active == nil {
		s.state = StateIdle
	}
	s.mu.Unlock()
	s.log.Debug("Channel closed", "channel_id", h.channel.ID)
}

// closeHandle closes h only if it is still the active selection.
func (s *Session) closeHandle(h *Handle) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.Active() == h {
		s.closeActive()
	}
}

// Send inserts content in the active channel. The message is not appended
// locally: it shows up through the notification like any other message.
func (s *Session) Send(ctx context.Context, content string) error {
	h := s.Active()
	if h == nil {
		if _, err := chat.NewPostMessageCommand("", "", s.userID, content); err != nil {
			return err
		}
		return errors.ErrNoActiveChannel
	}
	cmd, err := chat.NewPostMessageCommand(chat.MessageID(uuid.NewString()), h.channel.ID, s.userID, content)
	if err != nil {
		return err
	}
	if err = cmd.Validate(s.config.MaxContentLength); err != nil {
		return err
	}

	message := chat.Message{ID: cmd.ID, ChannelID: cmd.ChannelID, UserID: cmd.UserID, Content: cmd.Content}
	var censored []string
	if s.filter != nil {
		message.Content, censored = s.filter.Censor(message.Content)
	}
	backoff := s.config.SendBackoff
	for attempt := 1; ; attempt++ {
		_, err = s.messages.InsertMessage(ctx, message)
		if err == nil {
			event.Emit(s.telemetry, event.MessageSentType, event.MessageSent{Channel: message.ChannelID, UserID: s.userID, Censored: len(censored)})
			return nil
		}
		if attempt >= s.config.SendAttempts || ctx.Err() != nil {
			return errors.Wrap(errors.ErrSend, err)
		}
		// The id travels with every attempt, a retry after an ambiguous
		// failure cannot duplicate the row.
		s.log.Warn("Message insert failed, retrying", "channel_id", message.ChannelID, "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return errors.Wrap(errors.ErrSend, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func (s *Session) loadHistory(ctx context.Context, channelID chat.ChannelID) ([]chat.EnrichedMessage, error) {
	history, err := s.messages.GetMessages(ctx, channelID)
	if err != nil {
		return nil, err
	}
	enriched := s.enricher.EnrichMessages(ctx, history)
	chat.SortEnriched(enriched)
	return enriched, nil
}

func (s *Session) isCurrent(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active != nil && s.generation == generation && s.active.generation == generation
}

func (s *Session) setState(generation uint64, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == generation {
		s.state = state
	}
}

func (s *Session) toIdle(generation uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation == generation {
		s.state = StateIdle
		s.active = nil
	}
}

// fail ends h after an unrecoverable subscription loss.
func (s *Session) fail(h *Handle, err error) {
	h.setErr(err)
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == h {
		s.generation++
		s.active = nil
		s.state = StateIdle
	}
}

func (s *Session) discard(h *Handle, id chat.MessageID) {
	active := chat.ChannelID("")
	if current := s.Active(); current != nil {
		active = current.channel.ID
	}
	event.Emit(s.telemetry, event.NotificationDiscardedType,
		event.NotificationDiscarded{Channel: h.channel.ID, ActiveChannel: active, MessageID: id})
}
