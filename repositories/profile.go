//go:generate go run go.uber.org/mock/mockgen -source=profile.go -destination=../mocks/mock_profile_repository.go -package=mocks
package repositories

import (
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"context"
	goerrors "errors"
	"fmt"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type IProfileRepository interface {
	SaveProfile(ctx context.Context, profile chat.Profile) error
	GetProfile(ctx context.Context, id chat.UserID) (chat.Profile, error)
	ListProfiles(ctx context.Context, excluding chat.UserID, limit int) ([]chat.Profile, error)
}

type ProfileRepository struct {
	db *badger.DB
}

func NewProfileRepository(db *badger.DB) ProfileRepository {
	return ProfileRepository{db: db}
}

type DiskProfile struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

func profileKey(id chat.UserID) string {
	return fmt.Sprintf("profile:%s", id)
}

func (r ProfileRepository) SaveProfile(ctx context.Context, profile chat.Profile) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return update(r.db, func(txn *badger.Txn) error {
		return setJSON(txn, profileKey(profile.UserID), fromProfile(profile))
	})
}

func (r ProfileRepository) GetProfile(ctx context.Context, id chat.UserID) (chat.Profile, error) {
	if err := ctx.Err(); err != nil {
		return chat.Profile{}, err
	}
	var disk DiskProfile
	err := r.db.View(func(txn *badger.Txn) error {
		return getJSON(txn, profileKey(id), &disk)
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return chat.Profile{}, errors.ErrProfileNotFound
	}
	if err != nil {
		return chat.Profile{}, err
	}
	return toProfile(disk), nil
}

// ListProfiles returns at most limit profiles ordered by display name,
// leaving out the excluded user. A limit <= 0 means no limit.
func (r ProfileRepository) ListProfiles(ctx context.Context, excluding chat.UserID, limit int) ([]chat.Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var profiles []chat.Profile
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, "profile:", func(item *badger.Item) error {
			var disk DiskProfile
			if err := item.Value(func(val []byte) error { return unmarshal(val, &disk) }); err != nil {
				return err
			}
			profiles = append(profiles, toProfile(disk))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	profiles = lo.Filter(profiles, func(p chat.Profile, _ int) bool { return p.UserID != excluding })
	sort.SliceStable(profiles, func(i, j int) bool {
		if profiles[i].DisplayName != profiles[j].DisplayName {
			return profiles[i].DisplayName < profiles[j].DisplayName
		}
		return profiles[i].UserID < profiles[j].UserID
	})
	if limit > 0 && len(profiles) > limit {
		profiles = profiles[:limit]
	}
	return profiles, nil
}

func profileExists(txn *badger.Txn, id chat.UserID) (bool, error) {
	_, err := txn.Get([]byte(profileKey(id)))
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

func fromProfile(p chat.Profile) DiskProfile {
	return DiskProfile{ID: string(p.UserID), DisplayName: p.DisplayName, AvatarURL: p.AvatarURL}
}

func toProfile(d DiskProfile) chat.Profile {
	return chat.Profile{UserID: chat.UserID(d.ID), DisplayName: d.DisplayName, AvatarURL: d.AvatarURL}
}
