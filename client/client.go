package main

import (
	"bufio"
	pb "chat-channels/api/chatv1"
	"chat-channels/services"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress string `env:"CHAT_SERVER_ADDR,default=localhost:8080"`
	Email         string `env:"CHAT_EMAIL,required=true"`
	Password      string `env:"CHAT_PASSWORD,required=true"`
	ChannelID     string `env:"CHAT_CHANNEL"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO"`
}

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run logs in, watches one channel and posts every line typed on stdin.
func run() (int, error) {
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := grpc.NewClient(config.ServerAddress, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Debug("Closing connection...")
		_ = conn.Close()
	}()

	auth, err := pb.NewAuthServiceClient(conn).Login(ctx, &pb.LoginRequest{Email: config.Email, Password: config.Password})
	if err != nil {
		return exitRuntime, fmt.Errorf("login failed: %w", err)
	}
	ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+auth.Token)
	client := pb.NewChatServiceClient(conn)

	channelID, err := selectChannel(ctx, client, config.ChannelID)
	if err != nil {
		return exitRuntime, err
	}

	stream, err := client.Watch(ctx, &pb.WatchRequest{ChannelID: channelID})
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open stream: %w", err)
	}

	go post(ctx, client, channelID)

	for {
		evt, err := stream.Recv()
		if err != nil {
			// Normal exit if the user triggered a shutdown.
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("stream error: %w", err)
		}
		if evt.Channel != nil {
			color.Green.Printf(">>> Connected to #%s (Ctrl+C to quit)\n", evt.Channel.Name)
		}
		for _, m := range evt.History {
			printMessage(m, auth.UserID)
		}
		if evt.Message != nil {
			printMessage(*evt.Message, auth.UserID)
		}
	}
}

// selectChannel falls back to the default public channel when none is configured.
func selectChannel(ctx context.Context, client pb.ChatServiceClient, configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	res, err := client.ListPublicChannels(ctx, &pb.ListPublicChannelsRequest{})
	if err != nil {
		return "", fmt.Errorf("failed to list public channels: %w", err)
	}
	channel, ok := services.DefaultChannel(pb.ToChannels(res.Channels))
	if !ok {
		return "", fmt.Errorf("no public channel to join")
	}
	return string(channel.ID), nil
}

func post(ctx context.Context, client pb.ChatServiceClient, channelID string) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if _, err := client.PostMessage(ctx, &pb.PostMessageRequest{ChannelID: channelID, Content: scanner.Text()}); err != nil {
			color.Red.Printf("send failed: %v\n", err)
		}
	}
}

func printMessage(m pb.Message, me string) {
	author := color.Cyan.Sprint(m.Sender.DisplayName)
	if m.Sender.UserID == me {
		author = color.Yellow.Sprint(m.Sender.DisplayName)
	}
	fmt.Printf("[%s] %s: %s\n", m.CreatedAt.Local().Format(time.TimeOnly), author, m.Content)
}
