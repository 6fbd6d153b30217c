// Package projection builds the local message log of the open channel.
// Handles ordering and deduplication.
// Does not fetch, subscribe, or interact with transports directly.
package projection

import (
	"chat-channels/domain/chat"
	"sort"
	"sync"
)

// Timeline is the ordered, append-only log of one channel.
// Entries are kept in (created_at, id) order and unique by id.
// Safe for concurrent use.
type Timeline struct {
	mu        sync.RWMutex
	ChannelID chat.ChannelID
	messages  []chat.EnrichedMessage
	ids       map[chat.MessageID]struct{}
}

func NewTimeline(channelID chat.ChannelID) *Timeline {
	return &Timeline{ChannelID: channelID, ids: make(map[chat.MessageID]struct{})}
}

// Load replaces the log with a fresh history.
func (t *Timeline) Load(messages []chat.EnrichedMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = nil
	t.ids = make(map[chat.MessageID]struct{}, len(messages))
	for _, m := range messages {
		t.insert(m)
	}
}

// Append adds a message at its ordered position. It reports false when the
// id is already present or the message belongs to another channel.
func (t *Timeline) Append(m chat.EnrichedMessage) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.insert(m)
}

// Merge appends every message not yet present and returns the ones added,
// in order.
func (t *Timeline) Merge(messages []chat.EnrichedMessage) []chat.EnrichedMessage {
	t.mu.Lock()
	defer t.mu.Unlock()
	var added []chat.EnrichedMessage
	for _, m := range messages {
		if t.insert(m) {
			added = append(added, m)
		}
	}
	chat.SortEnriched(added)
	return added
}

func (t *Timeline) insert(m chat.EnrichedMessage) bool {
	if m.ChannelID != t.ChannelID {
		return false
	}
	if _, ok := t.ids[m.ID]; ok {
		return false
	}
	t.ids[m.ID] = struct{}{}

	// Common case: newest message goes to the tail
	n := len(t.messages)
	if n == 0 || chat.Before(t.messages[n-1].Message, m.Message) {
		t.messages = append(t.messages, m)
		return true
	}
	i := sort.Search(n, func(i int) bool {
		return chat.Before(m.Message, t.messages[i].Message)
	})
	t.messages = append(t.messages, chat.EnrichedMessage{})
	copy(t.messages[i+1:], t.messages[i:])
	t.messages[i] = m
	return true
}

// Messages returns a snapshot of the log.
func (t *Timeline) Messages() []chat.EnrichedMessage {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]chat.EnrichedMessage(nil), t.messages...)
}

func (t *Timeline) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

func (t *Timeline) Contains(id chat.MessageID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.ids[id]
	return ok
}
