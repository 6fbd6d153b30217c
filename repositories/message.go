//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"chat-channels/contract"
	"chat-channels/domain/chat"
	"chat-channels/domain/event"
	"chat-channels/errors"
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
)

type IMessageRepository interface {
	InsertMessage(ctx context.Context, message chat.Message) (chat.Message, error)
	GetMessages(ctx context.Context, channelID chat.ChannelID) ([]chat.Message, error)
	GetMessage(ctx context.Context, id chat.MessageID) (chat.Message, error)
}

type MessageRepository struct {
	db        *badger.DB
	log       *slog.Logger
	publisher contract.EventPublisher
}

// NewMessageRepository wires the message table to the notification feed.
// A nil publisher stores messages without notifying anyone.
func NewMessageRepository(db *badger.DB, log *slog.Logger, publisher contract.EventPublisher) MessageRepository {
	return MessageRepository{db: db, log: log, publisher: publisher}
}

type DiskMessage struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	UserID    string    `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// messageKey is formatted as "msg:{channel_id}:{timestamp_padded}:{id}" to:
//  1. Ensure chronological sorting using 19-digit zero padding (lexicographical order).
//  2. Break ties between messages created at the same nanosecond with the id,
//     which gives the (created_at, id) order for free on a prefix scan.
func messageKey(m chat.Message) string {
	return fmt.Sprintf("msg:%s:%019d:%s", m.ChannelID, m.CreatedAt.UnixNano(), m.ID)
}

func messageIDKey(id chat.MessageID) string {
	return fmt.Sprintf("msgid:%s", id)
}

// InsertMessage persists a message and notifies the feed once committed.
// The store assigns CreatedAt when the caller left it empty.
// Inserting an id that already exists is a no-op returning the stored row,
// so a sender can safely retry after an ambiguous failure.
func (m MessageRepository) InsertMessage(ctx context.Context, message chat.Message) (chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return chat.Message{}, err
	}
	if err := message.ChannelID.Validate(); err != nil {
		return chat.Message{}, err
	}
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	if message.UpdatedAt.IsZero() {
		message.UpdatedAt = message.CreatedAt
	}

	var stored chat.Message
	inserted := false
	err := update(m.db, func(txn *badger.Txn) error {
		existing, err := loadMessage(txn, message.ID)
		switch {
		case err == nil:
			stored, inserted = existing, false
			return nil
		case !goerrors.Is(err, errors.ErrMessageNotFound):
			return err
		}
		key := messageKey(message)
		if err = setJSON(txn, key, fromMessage(message)); err != nil {
			return err
		}
		if err = txn.Set([]byte(messageIDKey(message.ID)), []byte(key)); err != nil {
			return err
		}
		stored, inserted = message, true
		return nil
	})
	if err != nil {
		return chat.Message{}, err
	}

	if !inserted {
		m.log.Debug("Message already stored, insert skipped", "message_id", message.ID)
		return stored, nil
	}
	m.notify(ctx, stored)
	return stored, nil
}

// notify never fails the insert: the row is committed, subscribers that miss
// the notification recover it on their next history load.
func (m MessageRepository) notify(ctx context.Context, message chat.Message) {
	if m.publisher == nil {
		return
	}
	evt := event.MessageInserted{MessageID: message.ID, Channel: message.ChannelID, At: message.CreatedAt}
	if err := m.publisher.Publish(ctx, evt); err != nil {
		m.log.Warn("Insert notification lost", "message_id", message.ID, "channel_id", message.ChannelID, "error", err)
	}
}

// GetMessages returns the whole history of a channel, oldest first.
// The prefix scan walks keys in (created_at, id) order so no sort is needed.
func (m MessageRepository) GetMessages(ctx context.Context, channelID chat.ChannelID) ([]chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var messages []chat.Message
	err := m.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, fmt.Sprintf("msg:%s:", channelID), func(item *badger.Item) error {
			var disk DiskMessage
			if err := item.Value(func(val []byte) error { return unmarshal(val, &disk) }); err != nil {
				return err
			}
			if chat.ChannelID(disk.ChannelID) != channelID {
				return nil
			}
			messages = append(messages, toMessage(disk))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (m MessageRepository) GetMessage(ctx context.Context, id chat.MessageID) (chat.Message, error) {
	if err := ctx.Err(); err != nil {
		return chat.Message{}, err
	}
	var message chat.Message
	err := m.db.View(func(txn *badger.Txn) error {
		var err error
		message, err = loadMessage(txn, id)
		return err
	})
	return message, err
}

func loadMessage(txn *badger.Txn, id chat.MessageID) (chat.Message, error) {
	item, err := txn.Get([]byte(messageIDKey(id)))
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return chat.Message{}, errors.ErrMessageNotFound
	}
	if err != nil {
		return chat.Message{}, err
	}
	key, err := item.ValueCopy(nil)
	if err != nil {
		return chat.Message{}, err
	}
	var disk DiskMessage
	if err = getJSON(txn, string(key), &disk); err != nil {
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			return chat.Message{}, errors.ErrMessageNotFound
		}
		return chat.Message{}, err
	}
	return toMessage(disk), nil
}

func fromMessage(message chat.Message) DiskMessage {
	return DiskMessage{
		ID:        string(message.ID),
		ChannelID: string(message.ChannelID),
		UserID:    string(message.UserID),
		Content:   message.Content,
		CreatedAt: message.CreatedAt.UTC(),
		UpdatedAt: message.UpdatedAt.UTC(),
	}
}

func toMessage(disk DiskMessage) chat.Message {
	return chat.Message{
		ID:        chat.MessageID(disk.ID),
		ChannelID: chat.ChannelID(disk.ChannelID),
		UserID:    chat.UserID(disk.UserID),
		Content:   disk.Content,
		CreatedAt: disk.CreatedAt.UTC(),
		UpdatedAt: disk.UpdatedAt.UTC(),
	}
}
