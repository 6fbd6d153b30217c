package e2e

import (
	pb "chat-channels/api/chatv1"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type testConversationSuite struct {
	BaseGrpcSuite
}

func TestConversationSuite(t *testing.T) {
	suite.Run(t, &testConversationSuite{})
}

func (s *testConversationSuite) TestPublicThenDirectConversation() {
	// Unique accounts so the suite can run against a long lived server
	run := uuid.NewString()[:8]
	alice := fmt.Sprintf("alice-%s@example.com", run)
	bob := fmt.Sprintf("bob-%s@example.com", run)

	var aliceToken, bobToken, bobID string

	// --- STEP 0: ACCOUNTS ---
	s.Run("Step 0: Register two users", func() {
		s.WithChat("Register alice and bob", func(ctx context.Context, auth pb.AuthServiceClient, _ pb.ChatServiceClient) {
			res, err := auth.Register(ctx, &pb.RegisterRequest{Email: alice, Password: s.Config.Password, DisplayName: "Alice " + run})
			s.Require().NoError(err)
			aliceToken = res.Token

			res, err = auth.Register(ctx, &pb.RegisterRequest{Email: bob, Password: s.Config.Password, DisplayName: "Bob " + run})
			s.Require().NoError(err)
			bobToken, bobID = res.Token, res.UserID
		})
	})

	// --- STEP 1: PUBLIC CHANNEL ROUND TRIP ---
	s.Run("Step 1: Bob sees alice's message on the public channel", func() {
		s.WithChat("Watch and post on the first public channel", func(ctx context.Context, _ pb.AuthServiceClient, chat pb.ChatServiceClient) {
			channels, err := chat.ListPublicChannels(Authenticated(ctx, aliceToken), &pb.ListPublicChannelsRequest{})
			s.Require().NoError(err)
			s.Require().NotEmpty(channels.Channels, "Server has no public channel")
			channelID := channels.Channels[0].ID

			bobStream, err := chat.Watch(Authenticated(ctx, bobToken), &pb.WatchRequest{ChannelID: channelID})
			s.Require().NoError(err)
			first, err := bobStream.Recv()
			s.Require().NoError(err)
			s.Require().Equal(channelID, first.Channel.ID)

			aliceStream, err := chat.Watch(Authenticated(ctx, aliceToken), &pb.WatchRequest{ChannelID: channelID})
			s.Require().NoError(err)
			_, err = aliceStream.Recv()
			s.Require().NoError(err)

			content := "hello from " + run
			_, err = chat.PostMessage(Authenticated(ctx, aliceToken), &pb.PostMessageRequest{ChannelID: channelID, Content: content})
			s.Require().NoError(err)

			// Other users may be talking on a shared server
			deadline := time.Now().Add(10 * time.Second)
			for time.Now().Before(deadline) {
				evt, err := bobStream.Recv()
				s.Require().NoError(err)
				if evt.Message != nil && evt.Message.Content == content {
					s.Require().Equal("Alice "+run, evt.Message.Sender.DisplayName)
					return
				}
			}
			s.FailNow("Message never reached bob")
		})
	})

	// --- STEP 2: DIRECT CHANNEL ---
	s.Run("Step 2: Starting a direct conversation twice gives the same channel", func() {
		s.WithChat("Start direct from alice", func(ctx context.Context, _ pb.AuthServiceClient, chat pb.ChatServiceClient) {
			first, err := chat.StartDirect(Authenticated(ctx, aliceToken), &pb.StartDirectRequest{OtherUserID: bobID})
			s.Require().NoError(err)
			second, err := chat.StartDirect(Authenticated(ctx, aliceToken), &pb.StartDirectRequest{OtherUserID: bobID})
			s.Require().NoError(err)
			s.Require().Equal(first.Channel.Channel.ID, second.Channel.Channel.ID)
			s.Require().Equal("Bob "+run, first.Channel.OtherUser.DisplayName)
		})
	})
}
