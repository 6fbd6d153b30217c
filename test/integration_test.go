package test

import (
	"chat-channels/domain/chat"
	"chat-channels/domain/event"
	"chat-channels/errors"
	"chat-channels/internal"
	"chat-channels/repositories"
	"chat-channels/services"
	"chat-channels/session"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const waitFor = 3 * time.Second

func testConfig(dir string) internal.Config {
	return internal.Config{
		LogLevel:             "DEBUG",
		BadgerFilepath:       dir,
		BufferSize:           100,
		SubscriberBufferSize: 10,
		SinkTimeout:          200 * time.Millisecond,
		RestartInterval:      10 * time.Millisecond,
		MetricInterval:       time.Second,
		ReportInterval:       time.Minute,
		LatencyThreshold:     time.Second,
		LowCapacityThreshold: 1,
		MaxContentLength:     100,
		SendAttempts:         2,
		SendBackoff:          time.Millisecond,
		ResubscribeAttempts:  2,
		ResubscribeBackoff:   time.Millisecond,
		UpdatesBuffer:        10,
		AuthSecret:           "test-secret",
		AuthTokenDuration:    time.Hour,
		PublicChannels:       "general random",
	}
}

func newApp(t *testing.T) *internal.App {
	return newAppWith(t, func(*internal.Config) {})
}

func newAppWith(t *testing.T, configure func(*internal.Config)) *internal.App {
	req := require.New(t)
	dir := t.TempDir()
	// Reduced to 16 Mo for testing
	db, err := badger.Open(badger.DefaultOptions(dir).
		WithLoggingLevel(badger.ERROR).
		WithValueLogFileSize(16 << 20))
	req.NoError(err)

	config := testConfig(dir)
	configure(&config)
	app, err := internal.NewApp(logs.GetLoggerFromLevel(slog.LevelDebug), db, config)
	req.NoError(err)
	req.NoError(app.Start(context.Background()))

	// Clean everything at the end of the test
	t.Cleanup(func() {
		app.Stop()
		_ = db.Close()
	})
	return app
}

func register(t *testing.T, app *internal.App, name string) chat.UserID {
	t.Helper()
	_, id, err := app.AuthService.Register(context.Background(), name+"@example.com", "ComplexPass123!", name)
	require.NoError(t, err)
	return id
}

func publicChannel(t *testing.T, app *internal.App, name string) chat.Channel {
	t.Helper()
	channels, err := app.Directory.ListPublicChannels(context.Background())
	require.NoError(t, err)
	channel, ok := lo.Find(channels, func(c chat.Channel) bool { return c.Name == name })
	require.True(t, ok, "missing public channel %s", name)
	return channel
}

func receive(t *testing.T, updates <-chan chat.EnrichedMessage) chat.EnrichedMessage {
	t.Helper()
	select {
	case m, ok := <-updates:
		require.True(t, ok, "updates closed")
		return m
	case <-time.After(waitFor):
		t.Fatal("no update received")
		return chat.EnrichedMessage{}
	}
}

func Test_Scenario_Direct_Channel_Is_Shared_By_Both_Users(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	app := newApp(t)
	alice := register(t, app, "Alice")
	bob := register(t, app, "Bob")

	// Given alice and bob share no direct channel
	directs, err := app.ChatService.ListDirectChannels(ctx, alice)
	req.NoError(err)
	req.Empty(directs)

	// When alice starts a conversation with bob, then bob with alice
	fromAlice, _, err := app.ChatService.StartDirectConversation(ctx, alice, bob)
	req.NoError(err)
	fromBob, bobDirects, err := app.ChatService.StartDirectConversation(ctx, bob, alice)
	req.NoError(err)

	// Then both land on the same channel and no second one was created
	req.Equal(fromAlice.ID, fromBob.ID)
	req.Equal("Bob", fromAlice.OtherUser.DisplayName)
	req.Equal("Alice", fromBob.OtherUser.DisplayName)
	req.Len(bobDirects, 1)
	directs, err = app.ChatService.ListDirectChannels(ctx, alice)
	req.NoError(err)
	req.Len(directs, 1)
}

func Test_Scenario_Public_Membership_Is_Not_Listed_As_Direct(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	app := newApp(t)
	alice := register(t, app, "Alice")
	general := publicChannel(t, app, "general")

	// Given alice joined a public channel
	req.NoError(app.Channels.AddMember(ctx, chat.Membership{ChannelID: general.ID, UserID: alice}))

	// When her direct channels are listed
	directs, err := app.ChatService.ListDirectChannels(ctx, alice)

	// Then the public membership does not show up
	req.NoError(err)
	req.Empty(directs)
	ids, err := app.Channels.GetChannelIDsForUser(ctx, alice)
	req.NoError(err)
	req.Equal([]chat.ChannelID{general.ID}, ids)
}

func Test_Start_Rejects_Public_Channel_With_Separator(t *testing.T) {
	req := require.New(t)
	dir := t.TempDir()
	db, err := badger.Open(badger.DefaultOptions(dir).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	config := testConfig(dir)
	config.PublicChannels = "general general:ops"
	app, err := internal.NewApp(logs.GetLoggerFromLevel(slog.LevelDebug), db, config)
	req.NoError(err)
	t.Cleanup(func() {
		app.Stop()
		_ = db.Close()
	})

	err = app.Start(context.Background())

	req.ErrorIs(err, errors.ErrInvalidChannelID)
}

func Test_Scenario_Select_Returns_History_In_Order(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	app := newApp(t)
	alice := register(t, app, "Alice")
	general := publicChannel(t, app, "general")

	// Given three messages inserted out of order
	t1 := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	for _, m := range []struct {
		id string
		at time.Time
	}{{"m3", t1.Add(2 * time.Minute)}, {"m1", t1}, {"m2", t1.Add(time.Minute)}} {
		_, err := app.Messages.InsertMessage(ctx, chat.Message{
			ID: chat.MessageID(m.id), ChannelID: general.ID, UserID: alice, Content: m.id, CreatedAt: m.at,
		})
		req.NoError(err)
	}

	// When alice selects general
	s := app.ChatService.OpenSession(alice)
	defer s.Close()
	h, err := s.Select(ctx, general)
	req.NoError(err)

	// Then the history is exactly m1, m2, m3, enriched
	history := h.Messages()
	req.Equal([]chat.MessageID{"m1", "m2", "m3"}, lo.Map(history, func(m chat.EnrichedMessage, _ int) chat.MessageID { return m.ID }))
	req.Equal("Alice", history[0].Sender.DisplayName)
	req.Equal(session.StateSubscribed, s.State())
}

func Test_Scenario_Send_Appends_Once_Through_Notification(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	app := newApp(t)
	alice := register(t, app, "Alice")
	general := publicChannel(t, app, "general")

	s := app.ChatService.OpenSession(alice)
	defer s.Close()
	h, err := s.Select(ctx, general)
	req.NoError(err)
	before := len(h.Messages())

	// When alice sends hello
	req.NoError(s.Send(ctx, "hello"))

	// Then the notification appends it exactly once
	m := receive(t, h.Updates())
	req.Equal("hello", m.Content)
	req.Equal("Alice", m.Sender.DisplayName)
	req.Len(h.Messages(), before+1)

	select {
	case extra := <-h.Updates():
		t.Fatalf("unexpected second update %s", extra.ID)
	case <-time.After(100 * time.Millisecond):
	}
}

// gatedMessages holds GetMessage until released while gated is set.
type gatedMessages struct {
	repositories.IMessageRepository
	gated    atomic.Bool
	fetching chan chat.MessageID
	release  chan struct{}
}

func (g *gatedMessages) GetMessage(ctx context.Context, id chat.MessageID) (chat.Message, error) {
	if g.gated.Load() {
		g.fetching <- id
		<-g.release
	}
	return g.IMessageRepository.GetMessage(ctx, id)
}

func Test_Scenario_Switch_While_Fetch_In_Flight_Discards_Message(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	app := newApp(t)
	alice := register(t, app, "Alice")
	general := publicChannel(t, app, "general")
	random := publicChannel(t, app, "random")

	messages := &gatedMessages{
		IMessageRepository: app.Messages,
		fetching:           make(chan chat.MessageID, 1),
		release:            make(chan struct{}),
	}
	telemetry := make(chan event.Event, 100)
	enricher := services.NewProfileEnricher(logs.GetLoggerFromLevel(slog.LevelDebug), app.Profiles)
	s := session.NewSession(logs.GetLoggerFromLevel(slog.LevelDebug), alice, messages, enricher,
		app.Orchestrator, telemetry, testConfig("").Session())
	defer s.Close()

	_, err := s.Select(ctx, general)
	req.NoError(err)

	// Given a notification for general whose fetch is still pending
	messages.gated.Store(true)
	id := chat.MessageID(uuid.NewString())
	_, err = app.Messages.InsertMessage(ctx, chat.Message{ID: id, ChannelID: general.ID, UserID: alice, Content: "late"})
	req.NoError(err)
	select {
	case fetched := <-messages.fetching:
		req.Equal(id, fetched)
	case <-time.After(waitFor):
		t.Fatal("notification never fetched")
	}

	// When alice switches to random before the fetch resolves
	messages.gated.Store(false)
	h, err := s.Select(ctx, random)
	req.NoError(err)
	close(messages.release)

	// Then the late message is discarded and random stays untouched
	deadline := time.After(waitFor)
	for discarded := false; !discarded; {
		select {
		case evt := <-telemetry:
			if evt.Type == event.NotificationDiscardedType {
				payload := evt.Payload.(event.NotificationDiscarded)
				discarded = payload.MessageID == id
				if discarded {
					req.Equal(general.ID, payload.Channel)
					req.Equal(random.ID, payload.ActiveChannel)
				}
			}
		case <-deadline:
			t.Fatal("late notification was not discarded")
		}
	}
	req.Empty(h.Messages())
	select {
	case m := <-h.Updates():
		t.Fatalf("random received %s", m.ID)
	case <-time.After(100 * time.Millisecond):
	}
}

func Test_Scenario_Unknown_Counterpart_Creates_Nothing(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	app := newApp(t)
	alice := register(t, app, "Alice")
	bob := register(t, app, "Bob")
	_, _, err := app.ChatService.StartDirectConversation(ctx, alice, bob)
	req.NoError(err)

	// When alice starts a conversation with a user that does not exist
	_, _, err = app.ChatService.StartDirectConversation(ctx, alice, chat.UserID(uuid.NewString()))

	// Then resolution fails and her direct channels are unchanged
	req.ErrorIs(err, errors.ErrResolve)
	req.ErrorIs(err, errors.ErrInvalidCounterpart)
	directs, err := app.ChatService.ListDirectChannels(ctx, alice)
	req.NoError(err)
	req.Len(directs, 1)
	req.Equal("Bob", directs[0].OtherUser.DisplayName)
}

func Test_Censored_Words_Are_Masked_Before_Storage(t *testing.T) {
	ctx := context.Background()
	req := require.New(t)
	words := t.TempDir()
	req.NoError(os.WriteFile(filepath.Join(words, "en.txt"), []byte("badger\n"), 0o600))
	app := newAppWith(t, func(c *internal.Config) {
		c.CensoredWordsDir = words
		c.CensorChar = "#"
	})
	alice := register(t, app, "Alice")
	general := publicChannel(t, app, "general")

	s := app.ChatService.OpenSession(alice)
	defer s.Close()
	h, err := s.Select(ctx, general)
	req.NoError(err)

	req.NoError(s.Send(ctx, "that B4dger again"))

	m := receive(t, h.Updates())
	req.Equal("that ###### again", m.Content)
	stored, err := app.Messages.GetMessages(ctx, general.ID)
	req.NoError(err)
	req.Len(stored, 1)
	req.Equal("that ###### again", stored[0].Content)
}
