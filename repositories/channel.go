//go:generate go run go.uber.org/mock/mockgen -source=channel.go -destination=../mocks/mock_channel_repository.go -package=mocks
package repositories

import (
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"context"
	goerrors "errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IChannelRepository interface {
	SaveChannel(ctx context.Context, channel chat.Channel) error
	AddMember(ctx context.Context, membership chat.Membership) error
	ListPublicChannels(ctx context.Context) ([]chat.Channel, error)
	GetChannelIDsForUser(ctx context.Context, userID chat.UserID) ([]chat.ChannelID, error)
	GetChannelsWithMembers(ctx context.Context, ids []chat.ChannelID) ([]chat.ChannelWithMembers, error)
	GetChannelWithMembers(ctx context.Context, id chat.ChannelID) (chat.ChannelWithMembers, error)
}

type ChannelRepository struct {
	db *badger.DB
}

func NewChannelRepository(db *badger.DB) ChannelRepository {
	return ChannelRepository{db: db}
}

// DiskChannel is the persisted shape of a channel row.
type DiskChannel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
}

func channelKey(id chat.ChannelID) string {
	return fmt.Sprintf("channel:%s", id)
}

// Membership rows are stored twice so that both "who is in this channel"
// and "which channels is this user in" are prefix scans.
func memberByChannelKey(channelID chat.ChannelID, userID chat.UserID) string {
	return fmt.Sprintf("member:channel:%s:%s", channelID, userID)
}

func memberByUserKey(userID chat.UserID, channelID chat.ChannelID) string {
	return fmt.Sprintf("member:user:%s:%s", userID, channelID)
}

func (r ChannelRepository) SaveChannel(ctx context.Context, channel chat.Channel) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := channel.ID.Validate(); err != nil {
		return err
	}
	return update(r.db, func(txn *badger.Txn) error {
		return setJSON(txn, channelKey(channel.ID), fromChannel(channel))
	})
}

func (r ChannelRepository) AddMember(ctx context.Context, membership chat.Membership) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := membership.ChannelID.Validate(); err != nil {
		return err
	}
	return update(r.db, func(txn *badger.Txn) error {
		return addMember(txn, membership)
	})
}

func addMember(txn *badger.Txn, m chat.Membership) error {
	if err := txn.Set([]byte(memberByChannelKey(m.ChannelID, m.UserID)), nil); err != nil {
		return err
	}
	return txn.Set([]byte(memberByUserKey(m.UserID, m.ChannelID)), nil)
}

// ListPublicChannels returns every public channel sorted by name.
func (r ChannelRepository) ListPublicChannels(ctx context.Context) ([]chat.Channel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var channels []chat.Channel
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, "channel:", func(item *badger.Item) error {
			var disk DiskChannel
			if err := item.Value(func(val []byte) error { return unmarshal(val, &disk) }); err != nil {
				return err
			}
			if chat.Kind(disk.Kind) == chat.KindPublic {
				channels = append(channels, toChannel(disk))
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(channels, func(i, j int) bool {
		if channels[i].Name != channels[j].Name {
			return channels[i].Name < channels[j].Name
		}
		return channels[i].ID < channels[j].ID
	})
	return channels, nil
}

func (r ChannelRepository) GetChannelIDsForUser(ctx context.Context, userID chat.UserID) ([]chat.ChannelID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prefix := fmt.Sprintf("member:user:%s:", userID)
	var keys []string
	err := r.db.View(func(txn *badger.Txn) error {
		keys = scanKeys(txn, prefix)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return lo.FilterMap(keys, func(key string, _ int) (chat.ChannelID, bool) {
		return keySuffix[chat.ChannelID](key, prefix)
	}), nil
}

// GetChannelsWithMembers loads each channel with its membership rows.
// Ids without a channel row are skipped.
func (r ChannelRepository) GetChannelsWithMembers(ctx context.Context, ids []chat.ChannelID) ([]chat.ChannelWithMembers, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var res []chat.ChannelWithMembers
	err := r.db.View(func(txn *badger.Txn) error {
		for _, id := range lo.Uniq(ids) {
			cwm, err := loadChannelWithMembers(txn, id)
			if goerrors.Is(err, errors.ErrChannelNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			res = append(res, cwm)
		}
		return nil
	})
	return res, err
}

func (r ChannelRepository) GetChannelWithMembers(ctx context.Context, id chat.ChannelID) (chat.ChannelWithMembers, error) {
	if err := ctx.Err(); err != nil {
		return chat.ChannelWithMembers{}, err
	}
	var res chat.ChannelWithMembers
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		res, err = loadChannelWithMembers(txn, id)
		return err
	})
	return res, err
}

func loadChannelWithMembers(txn *badger.Txn, id chat.ChannelID) (chat.ChannelWithMembers, error) {
	var disk DiskChannel
	if err := getJSON(txn, channelKey(id), &disk); err != nil {
		if goerrors.Is(err, badger.ErrKeyNotFound) {
			return chat.ChannelWithMembers{}, errors.ErrChannelNotFound
		}
		return chat.ChannelWithMembers{}, err
	}
	prefix := fmt.Sprintf("member:channel:%s:", id)
	members := lo.FilterMap(scanKeys(txn, prefix), func(key string, _ int) (chat.Membership, bool) {
		userID, ok := keySuffix[chat.UserID](key, prefix)
		return chat.Membership{ChannelID: id, UserID: userID}, ok
	})
	return chat.ChannelWithMembers{Channel: toChannel(disk), Members: members}, nil
}

// keySuffix returns the last key segment after prefix. Keys with extra
// segments belong to an id that merely starts with the scanned one.
func keySuffix[T ~string](key, prefix string) (T, bool) {
	rest := strings.TrimPrefix(key, prefix)
	if rest == "" || strings.Contains(rest, ":") {
		return "", false
	}
	return T(rest), true
}

func fromChannel(c chat.Channel) DiskChannel {
	return DiskChannel{
		ID:        string(c.ID),
		Name:      c.Name,
		Kind:      string(c.Kind),
		CreatedAt: c.CreatedAt.UTC(),
		CreatedBy: string(c.CreatedBy),
	}
}

func toChannel(d DiskChannel) chat.Channel {
	return chat.Channel{
		ID:        chat.ChannelID(d.ID),
		Name:      d.Name,
		Kind:      chat.Kind(d.Kind),
		CreatedAt: d.CreatedAt.UTC(),
		CreatedBy: chat.UserID(d.CreatedBy),
	}
}
