package repositories

import (
	"chat-channels/domain/chat"
	"chat-channels/domain/event"
	"chat-channels/errors"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []event.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e event.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func openDB(t *testing.T) *badger.DB {
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func Test_Insert_Messages_Returns_History_In_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	publisher := &recordingPublisher{}
	repository := NewMessageRepository(openDB(t), slog.Default(), publisher)
	channelID := chat.ChannelID(uuid.NewString())
	at := time.Now().UTC()

	// Given three messages inserted out of order, two sharing a timestamp
	messages := []chat.Message{
		{ID: "m3", ChannelID: channelID, UserID: "clara", Content: "third", CreatedAt: at.Add(time.Minute)},
		{ID: "m2", ChannelID: channelID, UserID: "bob", Content: "second", CreatedAt: at},
		{ID: "m1", ChannelID: channelID, UserID: "alice", Content: "first", CreatedAt: at},
	}
	for _, m := range messages {
		_, err := repository.InsertMessage(ctx, m)
		req.NoError(err)
	}
	// And a message in another channel
	_, err := repository.InsertMessage(ctx, chat.Message{ID: "other", ChannelID: "elsewhere", UserID: "alice", Content: "hi", CreatedAt: at})
	req.NoError(err)

	// When history is fetched
	fetched, err := repository.GetMessages(ctx, channelID)

	// Then it is ordered by (created_at, id) and scoped to the channel
	req.NoError(err)
	req.Equal([]chat.MessageID{"m1", "m2", "m3"}, lo.Map(fetched, func(m chat.Message, _ int) chat.MessageID { return m.ID }))
	req.True(fetched[0].CreatedAt.Equal(at))
	// And every insert was notified
	req.Len(publisher.events, 4)
	req.Equal(channelID, publisher.events[0].ChannelID())
}

func Test_Insert_Message_Is_Idempotent_On_ID(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	publisher := &recordingPublisher{}
	repository := NewMessageRepository(openDB(t), slog.Default(), publisher)
	message := chat.Message{ID: chat.MessageID(uuid.NewString()), ChannelID: "general", UserID: "alice", Content: "hello"}

	// When the same message is inserted twice
	first, err := repository.InsertMessage(ctx, message)
	req.NoError(err)
	second, err := repository.InsertMessage(ctx, message)
	req.NoError(err)

	// Then a single row exists and a single notification went out
	req.Equal(first, second)
	req.False(first.CreatedAt.IsZero())
	fetched, err := repository.GetMessages(ctx, "general")
	req.NoError(err)
	req.Len(fetched, 1)
	req.Len(publisher.events, 1)
	inserted, ok := publisher.events[0].(event.MessageInserted)
	req.True(ok)
	req.Equal(message.ID, inserted.MessageID)
}

func Test_Get_Message(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	stored, err := repository.InsertMessage(ctx, chat.Message{ID: "m1", ChannelID: "general", UserID: "alice", Content: "hello"})
	req.NoError(err)

	fetched, err := repository.GetMessage(ctx, "m1")
	req.NoError(err)
	req.Equal(stored.Content, fetched.Content)
	req.Equal(stored.UserID, fetched.UserID)

	_, err = repository.GetMessage(ctx, "missing")
	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func Test_Empty_Channel_Has_Empty_History(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository(openDB(t), slog.Default(), nil)

	fetched, err := repository.GetMessages(context.Background(), "nobody-talks-here")

	req.NoError(err)
	req.Empty(fetched)
}

func Test_List_Public_Channels_Sorted_By_Name(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewChannelRepository(openDB(t))
	now := time.Now().UTC()

	// Given two public channels and a direct one
	for _, c := range []chat.Channel{
		{ID: "c2", Name: "random", Kind: chat.KindPublic, CreatedAt: now},
		{ID: "c1", Name: "general", Kind: chat.KindPublic, CreatedAt: now},
		{ID: "d1", Name: "alice:bob", Kind: chat.KindDirect, CreatedAt: now},
	} {
		req.NoError(repository.SaveChannel(ctx, c))
	}

	// When public channels are listed
	channels, err := repository.ListPublicChannels(ctx)

	// Then only public ones come back, by name
	req.NoError(err)
	req.Equal([]string{"general", "random"}, lo.Map(channels, func(c chat.Channel, _ int) string { return c.Name }))
}

func Test_Channels_With_Members(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewChannelRepository(openDB(t))

	req.NoError(repository.SaveChannel(ctx, chat.Channel{ID: "d1", Name: "alice:bob", Kind: chat.KindDirect, CreatedAt: time.Now().UTC()}))
	req.NoError(repository.AddMember(ctx, chat.Membership{ChannelID: "d1", UserID: "alice"}))
	req.NoError(repository.AddMember(ctx, chat.Membership{ChannelID: "d1", UserID: "bob"}))
	// Membership pointing at a channel row that does not exist
	req.NoError(repository.AddMember(ctx, chat.Membership{ChannelID: "ghost", UserID: "alice"}))

	ids, err := repository.GetChannelIDsForUser(ctx, "alice")
	req.NoError(err)
	req.ElementsMatch([]chat.ChannelID{"d1", "ghost"}, ids)

	channels, err := repository.GetChannelsWithMembers(ctx, ids)
	req.NoError(err)
	req.Len(channels, 1)
	req.Len(channels[0].Members, 2)
	other, ok := channels[0].OtherMember("alice")
	req.True(ok)
	req.Equal(chat.UserID("bob"), other)

	_, err = repository.GetChannelWithMembers(ctx, "ghost")
	req.ErrorIs(err, errors.ErrChannelNotFound)
}

func Test_Channel_IDs_With_Separator_Are_Rejected(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openDB(t)
	channels := NewChannelRepository(db)
	messages := NewMessageRepository(db, slog.Default(), nil)

	// When a channel id carries the key separator
	err := channels.SaveChannel(ctx, chat.Channel{ID: "general:ops", Name: "ops", Kind: chat.KindPublic})

	// Then every write path refuses it
	req.ErrorIs(err, errors.ErrInvalidChannelID)
	req.ErrorIs(channels.AddMember(ctx, chat.Membership{ChannelID: "general:ops", UserID: "bob"}), errors.ErrInvalidChannelID)
	_, err = messages.InsertMessage(ctx, chat.Message{ID: "m1", ChannelID: "general:ops", UserID: "bob", Content: "hi"})
	req.ErrorIs(err, errors.ErrInvalidChannelID)
}

func Test_Prefix_Sharing_Rows_Stay_In_Their_Channel(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openDB(t)
	channels := NewChannelRepository(db)
	messages := NewMessageRepository(db, slog.Default(), nil)
	at := time.Now().UTC()

	// Given a channel with one member and one message
	req.NoError(channels.SaveChannel(ctx, chat.Channel{ID: "general", Name: "general", Kind: chat.KindPublic, CreatedAt: at}))
	req.NoError(channels.AddMember(ctx, chat.Membership{ChannelID: "general", UserID: "alice"}))
	_, err := messages.InsertMessage(ctx, chat.Message{ID: "m1", ChannelID: "general", UserID: "alice", Content: "mine", CreatedAt: at})
	req.NoError(err)
	// And rows written for "general:ops" before ids were validated
	legacy := chat.Message{ID: "m2", ChannelID: "general:ops", UserID: "bob", Content: "not mine", CreatedAt: at}
	req.NoError(update(db, func(txn *badger.Txn) error {
		if err := setJSON(txn, messageKey(legacy), fromMessage(legacy)); err != nil {
			return err
		}
		if err := txn.Set([]byte(memberByChannelKey("general:ops", "bob")), nil); err != nil {
			return err
		}
		return txn.Set([]byte(memberByUserKey("alice", "general:ops")), nil)
	}))

	// When the shorter channel is read back
	history, err := messages.GetMessages(ctx, "general")
	req.NoError(err)
	channel, err := channels.GetChannelWithMembers(ctx, "general")
	req.NoError(err)
	ids, err := channels.GetChannelIDsForUser(ctx, "alice")
	req.NoError(err)

	// Then none of the longer channel's rows leak in
	req.Equal([]chat.MessageID{"m1"}, lo.Map(history, func(m chat.Message, _ int) chat.MessageID { return m.ID }))
	req.Equal([]chat.Membership{{ChannelID: "general", UserID: "alice"}}, channel.Members)
	req.Equal([]chat.ChannelID{"general"}, ids)
}

func Test_Profiles(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewProfileRepository(openDB(t))
	avatar := "https://example.com/bob.png"

	for _, p := range []chat.Profile{
		{UserID: "alice", DisplayName: "Alice"},
		{UserID: "bob", DisplayName: "Bob", AvatarURL: &avatar},
		{UserID: "clara", DisplayName: "Clara"},
	} {
		req.NoError(repository.SaveProfile(ctx, p))
	}

	bob, err := repository.GetProfile(ctx, "bob")
	req.NoError(err)
	req.Equal("Bob", bob.DisplayName)
	req.Equal(avatar, *bob.AvatarURL)

	_, err = repository.GetProfile(ctx, "nobody")
	req.ErrorIs(err, errors.ErrProfileNotFound)

	// Listing excludes the caller and honours the limit
	profiles, err := repository.ListProfiles(ctx, "alice", 1)
	req.NoError(err)
	req.Len(profiles, 1)
	req.Equal(chat.UserID("bob"), profiles[0].UserID)

	profiles, err = repository.ListProfiles(ctx, "alice", 0)
	req.NoError(err)
	req.Len(profiles, 2)
}

func Test_Direct_Channel_Create_Then_Get(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openDB(t)
	profiles := NewProfileRepository(db)
	channels := NewChannelRepository(db)
	procedure := NewDirectChannelProcedure(db, slog.Default())
	req.NoError(profiles.SaveProfile(ctx, chat.Profile{UserID: "alice", DisplayName: "Alice"}))
	req.NoError(profiles.SaveProfile(ctx, chat.Profile{UserID: "bob", DisplayName: "Bob"}))

	// When alice starts a conversation with bob, then bob with alice
	first, err := procedure.CreateOrGetDirectChannel(ctx, "alice", "bob")
	req.NoError(err)
	second, err := procedure.CreateOrGetDirectChannel(ctx, "bob", "alice")
	req.NoError(err)

	// Then both land on the same channel with exactly two members
	req.Equal(first, second)
	channel, err := channels.GetChannelWithMembers(ctx, first)
	req.NoError(err)
	req.True(channel.IsDirect())
	req.Len(channel.Members, 2)
	req.True(channel.HasMember("alice"))
	req.True(channel.HasMember("bob"))
}

func Test_Direct_Channel_Invalid_Counterpart(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openDB(t)
	procedure := NewDirectChannelProcedure(db, slog.Default())
	req.NoError(NewProfileRepository(db).SaveProfile(ctx, chat.Profile{UserID: "alice", DisplayName: "Alice"}))

	_, err := procedure.CreateOrGetDirectChannel(ctx, "alice", "alice")
	req.ErrorIs(err, errors.ErrInvalidCounterpart)

	_, err = procedure.CreateOrGetDirectChannel(ctx, "alice", "ghost")
	req.ErrorIs(err, errors.ErrInvalidCounterpart)

	ids, err := NewChannelRepository(db).GetChannelIDsForUser(ctx, "alice")
	req.NoError(err)
	req.Empty(ids)
}

func Test_Direct_Channel_Concurrent_Callers_Converge(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	db := openDB(t)
	procedure := NewDirectChannelProcedure(db, slog.Default())
	profiles := NewProfileRepository(db)
	req.NoError(profiles.SaveProfile(ctx, chat.Profile{UserID: "alice", DisplayName: "Alice"}))
	req.NoError(profiles.SaveProfile(ctx, chat.Profile{UserID: "bob", DisplayName: "Bob"}))

	// Given both users starting the conversation at the same time
	const callers = 8
	results := make([]chat.ChannelID, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				results[i], errs[i] = procedure.CreateOrGetDirectChannel(ctx, "alice", "bob")
				return
			}
			results[i], errs[i] = procedure.CreateOrGetDirectChannel(ctx, "bob", "alice")
		}(i)
	}
	wg.Wait()

	// Then every caller got the same channel and only one exists
	for i := 0; i < callers; i++ {
		req.NoError(errs[i])
		req.Equal(results[0], results[i])
	}
	ids, err := NewChannelRepository(db).GetChannelIDsForUser(ctx, "alice")
	req.NoError(err)
	req.Len(ids, 1)
}

func Test_Accounts(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	repository := NewAccountRepository(openDB(t))

	userID, err := repository.CreateAccount(ctx, "Alice@Example.com ", "hash")
	req.NoError(err)
	req.NotEmpty(userID)

	// Emails are case insensitive
	_, err = repository.CreateAccount(ctx, "alice@example.com", "other")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)

	account, err := repository.GetAccountByEmail(ctx, "ALICE@example.com")
	req.NoError(err)
	req.Equal(string(userID), account.ID)
	req.Equal("hash", account.PasswordHash)
	req.Equal([]string{"user"}, account.Roles)

	_, err = repository.GetAccountByEmail(ctx, "bob@example.com")
	req.ErrorIs(err, errors.ErrInvalidCredentials)
}
