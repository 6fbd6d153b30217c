package services

import (
	"chat-channels/contract"
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"chat-channels/repositories"
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"
)

// ChannelDirectory lists the channels a user can open.
// Store failures are wrapped in ErrFetch and never retried.
type ChannelDirectory struct {
	log      *slog.Logger
	channels repositories.IChannelRepository
	enricher contract.IProfileEnricher
}

func NewChannelDirectory(log *slog.Logger, channels repositories.IChannelRepository, enricher contract.IProfileEnricher) *ChannelDirectory {
	return &ChannelDirectory{log: log, channels: channels, enricher: enricher}
}

// ListPublicChannels returns public channels sorted by name. Empty is valid.
func (d *ChannelDirectory) ListPublicChannels(ctx context.Context) ([]chat.Channel, error) {
	channels, err := d.channels.ListPublicChannels(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrFetch, err)
	}
	if channels == nil {
		channels = []chat.Channel{}
	}
	return channels, nil
}

// ListDirectChannels returns the direct channels currentUserID is a member of,
// newest first, each carrying the profile of the other participant.
func (d *ChannelDirectory) ListDirectChannels(ctx context.Context, currentUserID chat.UserID) ([]chat.DirectChannelView, error) {
	ids, err := d.channels.GetChannelIDsForUser(ctx, currentUserID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrFetch, err)
	}
	if len(ids) == 0 {
		return []chat.DirectChannelView{}, nil
	}

	channels, err := d.channels.GetChannelsWithMembers(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(errors.ErrFetch, err)
	}
	direct := lo.Filter(channels, func(c chat.ChannelWithMembers, _ int) bool {
		return c.IsDirect() && c.HasMember(currentUserID)
	})
	sort.SliceStable(direct, func(i, j int) bool {
		if !direct[i].CreatedAt.Equal(direct[j].CreatedAt) {
			return direct[i].CreatedAt.After(direct[j].CreatedAt)
		}
		return direct[i].ID < direct[j].ID
	})
	return lo.Map(direct, func(c chat.ChannelWithMembers, _ int) chat.DirectChannelView {
		return d.toView(ctx, c, currentUserID)
	}), nil
}

// LoadDirectChannelByID loads a single direct channel so a freshly resolved
// conversation can be selected without a full directory refresh.
func (d *ChannelDirectory) LoadDirectChannelByID(ctx context.Context, currentUserID chat.UserID, channelID chat.ChannelID) (chat.DirectChannelView, error) {
	channel, err := d.channels.GetChannelWithMembers(ctx, channelID)
	if err != nil {
		return chat.DirectChannelView{}, errors.Wrap(errors.ErrFetch, err)
	}
	if !channel.IsDirect() {
		return chat.DirectChannelView{}, errors.Wrap(errors.ErrFetch, errors.ErrNotDirectChannel)
	}
	if !channel.HasMember(currentUserID) {
		return chat.DirectChannelView{}, errors.Wrap(errors.ErrFetch, errors.ErrChannelNotFound)
	}
	return d.toView(ctx, channel, currentUserID), nil
}

// GetChannel resolves a channel the user may open: any public channel, or a
// direct channel holding a membership row for the user.
func (d *ChannelDirectory) GetChannel(ctx context.Context, currentUserID chat.UserID, channelID chat.ChannelID) (chat.Channel, error) {
	channel, err := d.channels.GetChannelWithMembers(ctx, channelID)
	if err != nil {
		return chat.Channel{}, errors.Wrap(errors.ErrFetch, err)
	}
	if channel.IsDirect() && !channel.HasMember(currentUserID) {
		return chat.Channel{}, errors.Wrap(errors.ErrFetch, errors.ErrChannelNotFound)
	}
	return channel.Channel, nil
}

func (d *ChannelDirectory) toView(ctx context.Context, c chat.ChannelWithMembers, currentUserID chat.UserID) chat.DirectChannelView {
	other, ok := c.OtherMember(currentUserID)
	if !ok {
		d.log.Warn("Direct channel without counterpart", "channel_id", c.ID, "user_id", currentUserID)
		return chat.DirectChannelView{Channel: c.Channel, OtherUser: chat.UnknownProfile("")}
	}
	return chat.DirectChannelView{Channel: c.Channel, OtherUser: d.enricher.Enrich(ctx, other)}
}

// EnsurePublicChannels creates the named public channels that do not exist
// yet. The name doubles as the channel id.
func (d *ChannelDirectory) EnsurePublicChannels(ctx context.Context, names []string) error {
	for _, name := range names {
		if err := chat.ChannelID(name).Validate(); err != nil {
			return fmt.Errorf("public channel %q: %w", name, err)
		}
	}
	for _, name := range names {
		_, err := d.channels.GetChannelWithMembers(ctx, chat.ChannelID(name))
		if err == nil {
			continue
		}
		if !goerrors.Is(err, errors.ErrChannelNotFound) {
			return err
		}
		channel := chat.Channel{ID: chat.ChannelID(name), Name: name, Kind: chat.KindPublic, CreatedAt: time.Now().UTC()}
		if err = d.channels.SaveChannel(ctx, channel); err != nil {
			return err
		}
		d.log.Info("Public channel created", "channel_id", channel.ID)
	}
	return nil
}

// DefaultChannel is the selection policy callers use when nothing is active:
// the first public channel, if any.
func DefaultChannel(publicChannels []chat.Channel) (chat.Channel, bool) {
	return lo.First(publicChannels)
}
