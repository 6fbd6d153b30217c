//go:generate go run go.uber.org/mock/mockgen -source=direct_channel.go -destination=../mocks/mock_direct_channel_procedure.go -package=mocks
package repositories

import (
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

// IDirectChannelProcedure is the atomic create-or-get of the direct channel
// between two users.
type IDirectChannelProcedure interface {
	CreateOrGetDirectChannel(ctx context.Context, currentUserID, otherUserID chat.UserID) (chat.ChannelID, error)
}

type DirectChannelProcedure struct {
	db  *badger.DB
	log *slog.Logger
}

func NewDirectChannelProcedure(db *badger.DB, log *slog.Logger) DirectChannelProcedure {
	return DirectChannelProcedure{db: db, log: log}
}

func directPairKey(a, b chat.UserID) string {
	return fmt.Sprintf("dm:%s", chat.PairKey(a, b))
}

// CreateOrGetDirectChannel returns the channel already bound to the pair or
// creates the channel, both memberships and the pair binding in a single
// transaction. The pair key is read inside that transaction, so two racing
// callers conflict and the loser replays into the "get" branch.
func (p DirectChannelProcedure) CreateOrGetDirectChannel(ctx context.Context, currentUserID, otherUserID chat.UserID) (chat.ChannelID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if currentUserID == "" || otherUserID == "" || currentUserID == otherUserID {
		return "", errors.ErrInvalidCounterpart
	}

	var channelID chat.ChannelID
	created := false
	err := update(p.db, func(txn *badger.Txn) error {
		created = false
		item, err := txn.Get([]byte(directPairKey(currentUserID, otherUserID)))
		switch {
		case err == nil:
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			channelID = chat.ChannelID(val)
			return nil
		case !goerrors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		exists, err := profileExists(txn, otherUserID)
		if err != nil {
			return err
		}
		if !exists {
			return errors.ErrInvalidCounterpart
		}

		channel := chat.Channel{
			ID:        chat.ChannelID(uuid.NewString()),
			Name:      chat.PairKey(currentUserID, otherUserID),
			Kind:      chat.KindDirect,
			CreatedAt: time.Now().UTC(),
			CreatedBy: currentUserID,
		}
		if err = setJSON(txn, channelKey(channel.ID), fromChannel(channel)); err != nil {
			return err
		}
		for _, userID := range []chat.UserID{currentUserID, otherUserID} {
			if err = addMember(txn, chat.Membership{ChannelID: channel.ID, UserID: userID}); err != nil {
				return err
			}
		}
		if err = txn.Set([]byte(directPairKey(currentUserID, otherUserID)), []byte(channel.ID)); err != nil {
			return err
		}
		channelID, created = channel.ID, true
		return nil
	})
	if err != nil {
		return "", err
	}
	if created {
		p.log.Info("Direct channel created", "channel_id", channelID, "user_id", currentUserID, "other_user_id", otherUserID)
	}
	return channelID, nil
}
