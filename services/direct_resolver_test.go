package services

import (
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"chat-channels/mocks"
	"context"
	goerrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newResolver(t *testing.T) (*DirectResolver, *mocks.MockIDirectChannelProcedure, *mocks.MockIChannelRepository, *mocks.MockIProfileEnricher) {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	procedure := mocks.NewMockIDirectChannelProcedure(ctrl)
	channels := mocks.NewMockIChannelRepository(ctrl)
	enricher := mocks.NewMockIProfileEnricher(ctrl)
	directory := NewChannelDirectory(log, channels, enricher)
	return NewDirectResolver(log, procedure, directory), procedure, channels, enricher
}

func TestDirectResolver_ResolveOrCreateDirect_Refreshes_Directory(t *testing.T) {
	req := require.New(t)
	resolver, procedure, channels, enricher := newResolver(t)

	// Given the procedure returns the pair channel
	procedure.EXPECT().CreateOrGetDirectChannel(gomock.Any(), chat.UserID("alice"), chat.UserID("bob")).
		Return(chat.ChannelID("dm-1"), nil)
	channels.EXPECT().GetChannelIDsForUser(gomock.Any(), chat.UserID("alice")).Return([]chat.ChannelID{"dm-1"}, nil)
	channels.EXPECT().GetChannelsWithMembers(gomock.Any(), []chat.ChannelID{"dm-1"}).
		Return([]chat.ChannelWithMembers{direct("dm-1", time.Now(), "alice", "bob")}, nil)
	enricher.EXPECT().Enrich(gomock.Any(), chat.UserID("bob")).Return(chat.Profile{UserID: "bob", DisplayName: "Bob"})

	// When alice resolves a conversation with bob
	channelID, directs, err := resolver.ResolveOrCreateDirect(context.Background(), "alice", "bob")

	// Then the channel is returned with the refreshed list
	req.NoError(err)
	req.Equal(chat.ChannelID("dm-1"), channelID)
	req.Len(directs, 1)
	req.Equal("Bob", directs[0].OtherUser.DisplayName)
}

func TestDirectResolver_ResolveOrCreateDirect_Procedure_Failure(t *testing.T) {
	req := require.New(t)
	resolver, procedure, _, _ := newResolver(t)

	procedure.EXPECT().CreateOrGetDirectChannel(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(chat.ChannelID(""), errors.ErrInvalidCounterpart)
	// No directory refresh is attempted

	channelID, directs, err := resolver.ResolveOrCreateDirect(context.Background(), "alice", "alice")

	req.ErrorIs(err, errors.ErrResolve)
	req.ErrorIs(err, errors.ErrInvalidCounterpart)
	req.Empty(channelID)
	req.Nil(directs)
}

func TestDirectResolver_ResolveOrCreateDirect_Tolerates_Refresh_Failure(t *testing.T) {
	req := require.New(t)
	resolver, procedure, channels, _ := newResolver(t)

	procedure.EXPECT().CreateOrGetDirectChannel(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(chat.ChannelID("dm-1"), nil)
	channels.EXPECT().GetChannelIDsForUser(gomock.Any(), gomock.Any()).Return(nil, goerrors.New("io"))

	channelID, directs, err := resolver.ResolveOrCreateDirect(context.Background(), "alice", "bob")

	req.NoError(err)
	req.Equal(chat.ChannelID("dm-1"), channelID)
	req.Nil(directs)
}
