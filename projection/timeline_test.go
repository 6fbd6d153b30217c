package projection

import (
	"chat-channels/domain/chat"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func msg(id string, offset time.Duration) chat.EnrichedMessage {
	return chat.EnrichedMessage{
		Message: chat.Message{ID: chat.MessageID(id), ChannelID: "general", UserID: "alice", Content: id, CreatedAt: at.Add(offset)},
		Sender:  chat.Profile{UserID: "alice", DisplayName: "Alice"},
	}
}

func ids(messages []chat.EnrichedMessage) []string {
	return lo.Map(messages, func(m chat.EnrichedMessage, _ int) string { return string(m.ID) })
}

func TestTimeline_Append_Keeps_Order(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("general")

	// Given a loaded history
	timeline.Load([]chat.EnrichedMessage{msg("a", 0), msg("c", 2*time.Second)})

	// When a newer and an older-than-tail message arrive
	req.True(timeline.Append(msg("d", 3*time.Second)))
	req.True(timeline.Append(msg("b", time.Second)))

	// Then the log stays ordered by (created_at, id)
	req.Equal([]string{"a", "b", "c", "d"}, ids(timeline.Messages()))
}

func TestTimeline_Append_Ignores_Duplicates_And_Other_Channels(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("general")
	timeline.Load([]chat.EnrichedMessage{msg("a", 0)})

	req.False(timeline.Append(msg("a", 0)))
	other := msg("x", time.Second)
	other.ChannelID = "random"
	req.False(timeline.Append(other))

	req.Equal(1, timeline.Len())
	req.True(timeline.Contains("a"))
	req.False(timeline.Contains("x"))
}

func TestTimeline_Ties_Broken_By_ID(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("general")

	timeline.Append(msg("b", 0))
	timeline.Append(msg("a", 0))

	req.Equal([]string{"a", "b"}, ids(timeline.Messages()))
}

func TestTimeline_Merge_Returns_Only_New_Messages(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("general")
	timeline.Load([]chat.EnrichedMessage{msg("a", 0), msg("b", time.Second)})

	// When a resync brings back the full history plus what was missed
	added := timeline.Merge([]chat.EnrichedMessage{msg("a", 0), msg("b", time.Second), msg("d", 3*time.Second), msg("c", 2*time.Second)})

	req.Equal([]string{"c", "d"}, ids(added))
	req.Equal([]string{"a", "b", "c", "d"}, ids(timeline.Messages()))
}

func TestTimeline_Messages_Is_A_Snapshot(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline("general")
	timeline.Load([]chat.EnrichedMessage{msg("a", 0)})

	snapshot := timeline.Messages()
	timeline.Append(msg("b", time.Second))

	req.Len(snapshot, 1)
	req.Equal(2, timeline.Len())
}
