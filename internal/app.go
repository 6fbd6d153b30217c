// Package internal wires the messaging core, the notification feed and both
// transports from a Config and an open Badger database.
package internal

import (
	pb "chat-channels/api/chatv1"
	"chat-channels/auth"
	"chat-channels/contract"
	"chat-channels/domain/event"
	"chat-channels/infrastructure/gateway"
	"chat-channels/infrastructure/grpc/server"
	"chat-channels/moderation"
	"chat-channels/repositories"
	"chat-channels/runtime"
	"chat-channels/runtime/workers"
	"chat-channels/services"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/dgraph-io/badger/v4"
	"google.golang.org/grpc"
)

type App struct {
	log          *slog.Logger
	config       Config
	Counter      *event.Counter
	Registry     *runtime.Registry
	Orchestrator *runtime.Orchestrator
	Issuer       *auth.TokenIssuer
	Channels     repositories.ChannelRepository
	Messages     repositories.MessageRepository
	Profiles     repositories.ProfileRepository
	Directory    *services.ChannelDirectory
	ChatService  *services.ChatService
	AuthService  services.IAuthService
	Gateway      *gateway.Gateway
}

func NewApp(log *slog.Logger, db *badger.DB, config Config) (*App, error) {
	telemetry := make(chan event.Event, config.BufferSize)
	counter := event.NewCounter()
	registry := runtime.NewRegistry()
	supervisor := workers.NewSupervisor(log, telemetry, config.RestartInterval)
	orchestrator := runtime.NewOrchestrator(log, supervisor, registry, telemetry, counter, config.Feed())

	channels := repositories.NewChannelRepository(db)
	messages := repositories.NewMessageRepository(db, log, orchestrator)
	profiles := repositories.NewProfileRepository(db)
	accounts := repositories.NewAccountRepository(db)
	procedure := repositories.NewDirectChannelProcedure(db, log)

	enricher := services.NewProfileEnricher(log, profiles)
	directory := services.NewChannelDirectory(log, channels, enricher)
	resolver := services.NewDirectResolver(log, procedure, directory)
	filter, err := newContentFilter(log, config)
	if err != nil {
		return nil, err
	}
	chatService := services.NewChatService(log, directory, resolver, enricher, messages, orchestrator, telemetry, config.Session(), filter)

	issuer := auth.NewTokenIssuer(config.AuthSecret, config.AuthTokenDuration)
	monitoring := gateway.NewMonitoring(counter, registry.Len)

	return &App{
		log:          log,
		config:       config,
		Counter:      counter,
		Registry:     registry,
		Orchestrator: orchestrator,
		Issuer:       issuer,
		Channels:     channels,
		Messages:     messages,
		Profiles:     profiles,
		Directory:    directory,
		ChatService:  chatService,
		AuthService:  services.NewAuthService(accounts, profiles, issuer),
		Gateway:      gateway.NewGateway(log, chatService, issuer, monitoring, config.Gateway()),
	}, nil
}

// newContentFilter returns nil when no word list directory is configured.
func newContentFilter(log *slog.Logger, config Config) (contract.IContentFilter, error) {
	if config.CensoredWordsDir == "" {
		return nil, nil
	}
	dictionary, err := moderation.LoadDictionary(os.DirFS(config.CensoredWordsDir), ".")
	if err != nil {
		return nil, fmt.Errorf("censored words loading failed: %w", err)
	}
	moderator, err := moderation.NewModerator(dictionary.Words, config.CensorRune())
	if err != nil {
		return nil, fmt.Errorf("moderator build failed: %w", err)
	}
	log.Info("Moderation enabled", "words", len(dictionary.Words), "languages", dictionary.Languages)
	return moderator, nil
}

// Start runs the feed and creates the configured public channels.
func (a *App) Start(ctx context.Context) error {
	if err := a.Orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("orchestrator failed to start: %w", err)
	}
	if err := a.Directory.EnsurePublicChannels(ctx, a.config.PublicChannelNames()); err != nil {
		return fmt.Errorf("public channels setup failed: %w", err)
	}
	return nil
}

func (a *App) Stop() {
	a.Orchestrator.Stop()
}

// GRPCServer registers both services behind the bearer token interceptor.
// Only the AuthService methods are reachable without a token.
func (a *App) GRPCServer(opts ...grpc.ServerOption) *grpc.Server {
	interceptor := auth.NewInterceptor(a.Issuer,
		pb.AuthService_Register_FullMethodName,
		pb.AuthService_Login_FullMethodName,
	)
	opts = append(opts,
		grpc.ChainUnaryInterceptor(interceptor.Unary()),
		grpc.ChainStreamInterceptor(interceptor.Stream()),
	)
	s := grpc.NewServer(opts...)
	pb.RegisterChatServiceServer(s, server.NewChatServer(a.log, a.ChatService))
	pb.RegisterAuthServiceServer(s, server.NewAuthServer(a.AuthService))
	return s
}

func (a *App) HTTPHandler() http.Handler {
	return a.Gateway.Router()
}
