package server

import (
	pb "chat-channels/api/chatv1"
	"chat-channels/auth"
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"chat-channels/services"
	"chat-channels/session"
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/samber/lo"
	"google.golang.org/grpc"
)

// ChatServer exposes the messaging core. Every Watch stream owns a session;
// PostMessage goes through the session of the caller watching that channel.
type ChatServer struct {
	log         *slog.Logger
	chatService services.IChatService

	mu       sync.Mutex
	watchers map[chat.UserID]map[*session.Session]struct{}
}

func NewChatServer(log *slog.Logger, chatService services.IChatService) *ChatServer {
	return &ChatServer{
		log:         log,
		chatService: chatService,
		watchers:    make(map[chat.UserID]map[*session.Session]struct{}),
	}
}

func (s *ChatServer) ListPublicChannels(ctx context.Context, _ *pb.ListPublicChannelsRequest) (*pb.ListPublicChannelsResponse, error) {
	channels, err := s.chatService.ListPublicChannels(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.ListPublicChannelsResponse{Channels: pb.FromChannels(channels)}, nil
}

func (s *ChatServer) ListDirectChannels(ctx context.Context, _ *pb.ListDirectChannelsRequest) (*pb.ListDirectChannelsResponse, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	views, err := s.chatService.ListDirectChannels(ctx, userID)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.ListDirectChannelsResponse{Channels: pb.FromDirectChannels(views)}, nil
}

func (s *ChatServer) ListUsers(ctx context.Context, req *pb.ListUsersRequest) (*pb.ListUsersResponse, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	profiles, err := s.chatService.ListUsers(ctx, userID, req.Limit)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.ListUsersResponse{Users: pb.FromProfiles(profiles)}, nil
}

func (s *ChatServer) StartDirect(ctx context.Context, req *pb.StartDirectRequest) (*pb.StartDirectResponse, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	view, directs, err := s.chatService.StartDirectConversation(ctx, userID, chat.UserID(req.OtherUserID))
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.StartDirectResponse{Channel: pb.FromDirectChannel(view), DirectChannels: pb.FromDirectChannels(directs)}, nil
}

// PostMessage does not echo the message back: the sender receives it on its
// Watch stream like every other participant.
func (s *ChatServer) PostMessage(ctx context.Context, req *pb.PostMessageRequest) (*pb.PostMessageResponse, error) {
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.MapToGRPCError(errors.ErrEmptyContent)
	}
	watcher, ok := s.watcher(userID, chat.ChannelID(req.ChannelID))
	if !ok {
		return nil, errors.MapToGRPCError(errors.ErrNoActiveChannel)
	}
	if err = watcher.Send(ctx, req.Content); err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.PostMessageResponse{Success: true}, nil
}

// Watch selects the channel, sends its history as a first frame then every
// appended message. It blocks until the client leaves or the subscription
// is lost for good.
func (s *ChatServer) Watch(req *pb.WatchRequest, stream grpc.ServerStreamingServer[pb.WatchEvent]) error {
	ctx := stream.Context()
	userID, err := auth.UserIDFromContext(ctx)
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	channel, err := s.chatService.GetChannel(ctx, userID, chat.ChannelID(req.ChannelID))
	if err != nil {
		return errors.MapToGRPCError(err)
	}

	sess := s.chatService.OpenSession(userID)
	defer sess.Close()
	handle, err := sess.Select(ctx, channel)
	if err != nil {
		return errors.MapToGRPCError(err)
	}
	s.track(userID, sess)
	defer s.untrack(userID, sess)

	history := handle.Messages()
	sent := lo.SliceToMap(history, func(m chat.EnrichedMessage) (chat.MessageID, struct{}) {
		return m.ID, struct{}{}
	})
	if err = stream.Send(pb.HistoryEvent(channel, history)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			s.log.Debug("Watcher left", "user_id", userID, "channel_id", channel.ID)
			return nil
		case m, ok := <-handle.Updates():
			if !ok {
				return errors.MapToGRPCError(handle.Err())
			}
			if _, dup := sent[m.ID]; dup {
				continue
			}
			if err = stream.Send(pb.MessageEvent(m)); err != nil {
				s.log.Error("failed to push message to stream",
					"user_id", userID,
					"channel_id", channel.ID,
					"error", err)
				return err
			}
		}
	}
}

func (s *ChatServer) track(userID chat.UserID, sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.watchers[userID] == nil {
		s.watchers[userID] = make(map[*session.Session]struct{})
	}
	s.watchers[userID][sess] = struct{}{}
}

func (s *ChatServer) untrack(userID chat.UserID, sess *session.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.watchers[userID], sess)
	if len(s.watchers[userID]) == 0 {
		delete(s.watchers, userID)
	}
}

func (s *ChatServer) watcher(userID chat.UserID, channelID chat.ChannelID) (*session.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sess := range s.watchers[userID] {
		if h := sess.Active(); h != nil && h.Channel().ID == channelID {
			return sess, true
		}
	}
	return nil, false
}
