package runtime

import (
	"chat-channels/contract"
	"chat-channels/domain/chat"
	"sync"
)

type Set map[string]struct{}

type Registry struct {
	mu             sync.RWMutex
	Sinks          map[string]contract.EventSink // map subscription -> Sink
	ChannelMembers map[chat.ChannelID]Set        // map channel to subscriptions
}

func NewRegistry() *Registry {
	return &Registry{
		Sinks:          make(map[string]contract.EventSink),
		ChannelMembers: make(map[chat.ChannelID]Set),
	}
}

// GetSinksForChannel retrieves the sinks of every live subscription on a channel.
// It performs a two-step lookup:
// 1. Identifies subscription IDs listening on the channel via ChannelMembers.
// 2. Resolves those IDs into actual EventSinks using the Sinks map.
//
// Returns nil if nobody listens on the channel.
func (r *Registry) GetSinksForChannel(channelID chat.ChannelID) []contract.EventSink {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members, ok := r.ChannelMembers[channelID]
	if !ok {
		return nil
	}
	var activeSinks []contract.EventSink
	for subscriptionID := range members {
		if sink, exists := r.Sinks[subscriptionID]; exists {
			activeSinks = append(activeSinks, sink)
		}
	}
	return activeSinks
}

// Subscribe registers a subscription sink on a channel.
// The channel entry is created on the fly.
func (r *Registry) Subscribe(subscriptionID string, channelID chat.ChannelID, sink contract.EventSink) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Sinks[subscriptionID] = sink

	if _, ok := r.ChannelMembers[channelID]; !ok {
		r.ChannelMembers[channelID] = make(Set)
	}
	r.ChannelMembers[channelID][subscriptionID] = struct{}{}
}

// Unsubscribe removes a subscription and drops empty channel entries
// to prevent memory leaks over time.
func (r *Registry) Unsubscribe(subscriptionID string, channelID chat.ChannelID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.Sinks, subscriptionID)

	if members, ok := r.ChannelMembers[channelID]; ok {
		delete(members, subscriptionID)

		if len(members) == 0 {
			delete(r.ChannelMembers, channelID)
		}
	}
}

// Len returns the number of live subscriptions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.Sinks)
}
