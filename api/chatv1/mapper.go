package chatv1

import (
	"chat-channels/domain/chat"

	"github.com/samber/lo"
)

func FromProfile(p chat.Profile) Profile {
	return Profile{UserID: string(p.UserID), DisplayName: p.DisplayName, AvatarURL: p.AvatarURL}
}

func FromProfiles(profiles []chat.Profile) []Profile {
	return lo.Map(profiles, func(p chat.Profile, _ int) Profile { return FromProfile(p) })
}

func FromChannel(c chat.Channel) Channel {
	return Channel{
		ID:        string(c.ID),
		Name:      c.Name,
		Kind:      string(c.Kind),
		CreatedAt: c.CreatedAt,
		CreatedBy: string(c.CreatedBy),
	}
}

func FromChannels(channels []chat.Channel) []Channel {
	return lo.Map(channels, func(c chat.Channel, _ int) Channel { return FromChannel(c) })
}

// ToChannels maps wire channels back to the domain, for client-side policies.
func ToChannels(channels []Channel) []chat.Channel {
	return lo.Map(channels, func(c Channel, _ int) chat.Channel {
		return chat.Channel{
			ID:        chat.ChannelID(c.ID),
			Name:      c.Name,
			Kind:      chat.Kind(c.Kind),
			CreatedAt: c.CreatedAt,
			CreatedBy: chat.UserID(c.CreatedBy),
		}
	})
}

func FromDirectChannel(v chat.DirectChannelView) DirectChannel {
	return DirectChannel{Channel: FromChannel(v.Channel), OtherUser: FromProfile(v.OtherUser)}
}

func FromDirectChannels(views []chat.DirectChannelView) []DirectChannel {
	return lo.Map(views, func(v chat.DirectChannelView, _ int) DirectChannel { return FromDirectChannel(v) })
}

func FromMessage(m chat.EnrichedMessage) Message {
	return Message{
		ID:        string(m.ID),
		ChannelID: string(m.ChannelID),
		Sender:    FromProfile(m.Sender),
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}

func FromMessages(messages []chat.EnrichedMessage) []Message {
	return lo.Map(messages, func(m chat.EnrichedMessage, _ int) Message { return FromMessage(m) })
}

// HistoryEvent is the first frame of a watch.
func HistoryEvent(channel chat.Channel, history []chat.EnrichedMessage) *WatchEvent {
	return &WatchEvent{Channel: lo.ToPtr(FromChannel(channel)), History: FromMessages(history)}
}

func MessageEvent(m chat.EnrichedMessage) *WatchEvent {
	return &WatchEvent{Message: lo.ToPtr(FromMessage(m))}
}
