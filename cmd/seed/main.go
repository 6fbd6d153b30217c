package main

import (
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"chat-channels/internal"
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

const seedPassword = "ComplexPass123!"

type user struct {
	email       string
	displayName string
}

var users = []user{
	{email: "alice@example.com", displayName: "Alice"},
	{email: "bob@example.com", displayName: "Bob"},
	{email: "carol@example.com", displayName: "Carol"},
}

var conversation = []struct {
	from    int
	content string
}{
	{0, "Morning everyone"},
	{1, "Hi Alice"},
	{2, "Coffee at 10?"},
	{0, "Count me in"},
}

// Fills a fresh database with a few accounts, a public conversation and a
// direct channel so a client has something to show.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	app, err := internal.NewApp(log, db, config)
	if err != nil {
		return err
	}
	if err = app.Start(ctx); err != nil {
		return err
	}
	defer app.Stop()

	ids := make([]chat.UserID, 0, len(users))
	for _, u := range users {
		id, err := account(ctx, app, u)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	channels, err := app.Directory.ListPublicChannels(ctx)
	if err != nil {
		return err
	}
	if len(channels) == 0 {
		log.Warn("No public channel configured, skipping messages")
		return nil
	}
	general := channels[0]
	for _, id := range ids {
		if err = app.Channels.AddMember(ctx, chat.Membership{ChannelID: general.ID, UserID: id}); err != nil {
			return fmt.Errorf("membership failed: %w", err)
		}
	}

	start := time.Now().UTC().Add(-time.Duration(len(conversation)) * time.Minute)
	for i, line := range conversation {
		message := chat.Message{
			ID:        chat.MessageID(uuid.NewString()),
			ChannelID: general.ID,
			UserID:    ids[line.from],
			Content:   line.content,
			CreatedAt: start.Add(time.Duration(i) * time.Minute),
		}
		if _, err = app.Messages.InsertMessage(ctx, message); err != nil {
			return fmt.Errorf("message insert failed: %w", err)
		}
	}

	view, _, err := app.ChatService.StartDirectConversation(ctx, ids[0], ids[1])
	if err != nil {
		return fmt.Errorf("direct channel failed: %w", err)
	}
	if _, err = app.Messages.InsertMessage(ctx, chat.Message{
		ID:        chat.MessageID(uuid.NewString()),
		ChannelID: view.Channel.ID,
		UserID:    ids[1],
		Content:   "Got a minute?",
	}); err != nil {
		return fmt.Errorf("message insert failed: %w", err)
	}

	log.Info("Seed done",
		slog.Int("users", len(ids)),
		slog.String("public_channel", string(general.ID)),
		slog.String("direct_channel", string(view.Channel.ID)),
		slog.String("password", seedPassword))
	return nil
}

// account registers u, or logs in when a previous seed already did.
func account(ctx context.Context, app *internal.App, u user) (chat.UserID, error) {
	_, id, err := app.AuthService.Register(ctx, u.email, seedPassword, u.displayName)
	if goerrors.Is(err, errors.ErrUserAlreadyExists) {
		_, id, err = app.AuthService.Login(ctx, u.email, seedPassword)
	}
	if err != nil {
		return "", fmt.Errorf("account %s failed: %w", u.email, err)
	}
	return id, nil
}
