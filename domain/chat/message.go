package chat

import (
	"sort"
	"time"
)

type MessageID string

// Message is immutable once created.
type Message struct {
	ID        MessageID
	ChannelID ChannelID
	UserID    UserID
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

const UnknownDisplayName = "Unknown user"

// Profile is the display snapshot of a user.
type Profile struct {
	UserID      UserID
	DisplayName string
	AvatarURL   *string
}

// UnknownProfile is the sentinel used when a user id cannot be resolved.
func UnknownProfile(userID UserID) Profile {
	return Profile{UserID: userID, DisplayName: UnknownDisplayName}
}

func (p Profile) IsUnknown() bool {
	return p.DisplayName == UnknownDisplayName && p.AvatarURL == nil
}

// EnrichedMessage is a message plus its sender snapshot resolved at read time.
type EnrichedMessage struct {
	Message
	Sender Profile
}

// Before orders messages by (CreatedAt, ID) ascending.
// ID only breaks ties between identical timestamps.
func Before(a, b Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func SortMessages(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return Before(messages[i], messages[j])
	})
}

func SortEnriched(messages []EnrichedMessage) {
	sort.SliceStable(messages, func(i, j int) bool {
		return Before(messages[i].Message, messages[j].Message)
	})
}
