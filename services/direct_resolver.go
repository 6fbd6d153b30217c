package services

import (
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"chat-channels/repositories"
	"context"
	"log/slog"
)

// DirectResolver finds or creates the direct channel of a user pair.
// Uniqueness is the procedure's job; the resolver only invokes it, surfaces
// the outcome and refreshes the directory.
type DirectResolver struct {
	log       *slog.Logger
	procedure repositories.IDirectChannelProcedure
	directory *ChannelDirectory
}

func NewDirectResolver(log *slog.Logger, procedure repositories.IDirectChannelProcedure, directory *ChannelDirectory) *DirectResolver {
	return &DirectResolver{log: log, procedure: procedure, directory: directory}
}

// ResolveOrCreateDirect returns the same channel id for (a, b) and (b, a).
// It returns the refreshed direct channel list of currentUserID alongside;
// a failed refresh is logged and leaves the list nil.
func (r *DirectResolver) ResolveOrCreateDirect(ctx context.Context, currentUserID, otherUserID chat.UserID) (chat.ChannelID, []chat.DirectChannelView, error) {
	channelID, err := r.procedure.CreateOrGetDirectChannel(ctx, currentUserID, otherUserID)
	if err != nil {
		return "", nil, errors.Wrap(errors.ErrResolve, err)
	}

	directs, err := r.directory.ListDirectChannels(ctx, currentUserID)
	if err != nil {
		r.log.Warn("Direct channel list refresh failed", "user_id", currentUserID, "error", err)
		return channelID, nil, nil
	}
	return channelID, directs, nil
}
