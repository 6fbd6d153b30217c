// Package chat contains the core concepts of the messaging system.
// Channels, memberships, messages and profiles live here together with
// the ordering and pairing rules every other layer relies on.
// No runtime, network, or storage logic should be added here.
package chat

import (
	"chat-channels/errors"
	"strings"
	"time"
)

type ChannelID string

// Validate rejects empty ids and ids containing ':', the storage key
// separator, so that "general" is never a key prefix of "general:ops".
func (id ChannelID) Validate() error {
	if id == "" || strings.Contains(string(id), ":") {
		return errors.ErrInvalidChannelID
	}
	return nil
}

type UserID string

type Kind string

const (
	KindPublic Kind = "public"
	KindDirect Kind = "direct"
)

// Channel is either a broadcast channel visible to everyone or a
// two-party direct channel. Name only matters for public channels.
type Channel struct {
	ID        ChannelID
	Name      string
	Kind      Kind
	CreatedAt time.Time
	CreatedBy UserID
}

func (c Channel) IsDirect() bool {
	return c.Kind == KindDirect
}

type Membership struct {
	ChannelID ChannelID
	UserID    UserID
}

type ChannelWithMembers struct {
	Channel
	Members []Membership
}

// HasMember reports whether userID owns a membership row on the channel.
func (c ChannelWithMembers) HasMember(userID UserID) bool {
	for _, m := range c.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// OtherMember returns the participant that is not currentUserID.
// ok is false when no such member exists.
func (c ChannelWithMembers) OtherMember(currentUserID UserID) (UserID, bool) {
	for _, m := range c.Members {
		if m.UserID != currentUserID {
			return m.UserID, true
		}
	}
	return "", false
}

// DirectChannelView is a direct channel seen from one participant,
// carrying the profile snapshot of the counterpart.
type DirectChannelView struct {
	Channel
	OtherUser Profile
}

// PairKey canonicalises an unordered pair of users so that (a, b) and
// (b, a) map to the same direct channel.
func PairKey(a, b UserID) string {
	if strings.Compare(string(a), string(b)) > 0 {
		a, b = b, a
	}
	return string(a) + ":" + string(b)
}
