package services

import (
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"chat-channels/repositories"
	"context"
	goerrors "errors"
	"log/slog"

	"github.com/samber/lo"
)

const DefaultUserListLimit = 20

// ProfileEnricher attaches sender profiles to messages at read time.
// Enrichment never fails: a missing profile or a store error degrades to
// the "Unknown user" sentinel so the message itself is still shown.
type ProfileEnricher struct {
	log      *slog.Logger
	profiles repositories.IProfileRepository
}

func NewProfileEnricher(log *slog.Logger, profiles repositories.IProfileRepository) *ProfileEnricher {
	return &ProfileEnricher{log: log, profiles: profiles}
}

func (e *ProfileEnricher) Enrich(ctx context.Context, userID chat.UserID) chat.Profile {
	if userID == "" {
		return chat.UnknownProfile(userID)
	}
	profile, err := e.profiles.GetProfile(ctx, userID)
	if err != nil {
		if goerrors.Is(err, errors.ErrProfileNotFound) {
			e.log.Debug("Profile not found, using sentinel", "user_id", userID)
		} else {
			e.log.Warn("Profile lookup failed, using sentinel", "user_id", userID, "error", err)
		}
		return chat.UnknownProfile(userID)
	}
	return profile
}

// EnrichMessages resolves each distinct sender once per call.
func (e *ProfileEnricher) EnrichMessages(ctx context.Context, messages []chat.Message) []chat.EnrichedMessage {
	cache := make(map[chat.UserID]chat.Profile)
	return lo.Map(messages, func(m chat.Message, _ int) chat.EnrichedMessage {
		profile, ok := cache[m.UserID]
		if !ok {
			profile = e.Enrich(ctx, m.UserID)
			cache[m.UserID] = profile
		}
		return chat.EnrichedMessage{Message: m, Sender: profile}
	})
}

// ListUsers returns the users the caller can start a conversation with.
func (e *ProfileEnricher) ListUsers(ctx context.Context, currentUserID chat.UserID, limit int) ([]chat.Profile, error) {
	if limit <= 0 {
		limit = DefaultUserListLimit
	}
	profiles, err := e.profiles.ListProfiles(ctx, currentUserID, limit)
	if err != nil {
		return nil, errors.Wrap(errors.ErrFetch, err)
	}
	return profiles, nil
}
