package services

import (
	"chat-channels/contract"
	"chat-channels/domain/chat"
	"chat-channels/domain/event"
	"chat-channels/repositories"
	"chat-channels/session"
	"context"
	"log/slog"
)

// IChatService is what the transports see of the messaging core.
type IChatService interface {
	ListPublicChannels(ctx context.Context) ([]chat.Channel, error)
	ListDirectChannels(ctx context.Context, userID chat.UserID) ([]chat.DirectChannelView, error)
	ListUsers(ctx context.Context, userID chat.UserID, limit int) ([]chat.Profile, error)
	GetChannel(ctx context.Context, userID chat.UserID, channelID chat.ChannelID) (chat.Channel, error)
	StartDirectConversation(ctx context.Context, userID, otherUserID chat.UserID) (chat.DirectChannelView, []chat.DirectChannelView, error)
	OpenSession(userID chat.UserID) *session.Session
}

type ChatService struct {
	log       *slog.Logger
	directory *ChannelDirectory
	resolver  *DirectResolver
	enricher  *ProfileEnricher
	messages  repositories.IMessageRepository
	feed      contract.INotificationFeed
	telemetry chan<- event.Event
	config    session.Config
	filter    contract.IContentFilter
}

func NewChatService(log *slog.Logger,
	directory *ChannelDirectory,
	resolver *DirectResolver,
	enricher *ProfileEnricher,
	messages repositories.IMessageRepository,
	feed contract.INotificationFeed,
	telemetry chan<- event.Event,
	config session.Config,
	filter contract.IContentFilter) *ChatService {
	return &ChatService{
		log:       log,
		directory: directory,
		resolver:  resolver,
		enricher:  enricher,
		messages:  messages,
		feed:      feed,
		telemetry: telemetry,
		config:    config,
		filter:    filter,
	}
}

func (s *ChatService) ListPublicChannels(ctx context.Context) ([]chat.Channel, error) {
	return s.directory.ListPublicChannels(ctx)
}

func (s *ChatService) ListDirectChannels(ctx context.Context, userID chat.UserID) ([]chat.DirectChannelView, error) {
	return s.directory.ListDirectChannels(ctx, userID)
}

func (s *ChatService) ListUsers(ctx context.Context, userID chat.UserID, limit int) ([]chat.Profile, error) {
	return s.enricher.ListUsers(ctx, userID, limit)
}

func (s *ChatService) GetChannel(ctx context.Context, userID chat.UserID, channelID chat.ChannelID) (chat.Channel, error) {
	return s.directory.GetChannel(ctx, userID, channelID)
}

// StartDirectConversation resolves the pair channel and loads it so the
// caller can select it right away.
func (s *ChatService) StartDirectConversation(ctx context.Context, userID, otherUserID chat.UserID) (chat.DirectChannelView, []chat.DirectChannelView, error) {
	channelID, directs, err := s.resolver.ResolveOrCreateDirect(ctx, userID, otherUserID)
	if err != nil {
		return chat.DirectChannelView{}, nil, err
	}
	view, err := s.directory.LoadDirectChannelByID(ctx, userID, channelID)
	if err != nil {
		return chat.DirectChannelView{}, directs, err
	}
	return view, directs, nil
}

// OpenSession returns a fresh session; every connection owns its own.
func (s *ChatService) OpenSession(userID chat.UserID) *session.Session {
	var opts []session.Option
	if s.filter != nil {
		opts = append(opts, session.WithContentFilter(s.filter))
	}
	return session.NewSession(s.log, userID, s.messages, s.enricher, s.feed, s.telemetry, s.config, opts...)
}
