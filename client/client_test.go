package main

import (
	pb "chat-channels/api/chatv1"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
)

type listingClient struct {
	pb.ChatServiceClient
	channels []pb.Channel
	calls    int
}

func (c *listingClient) ListPublicChannels(_ context.Context, _ *pb.ListPublicChannelsRequest, _ ...grpc.CallOption) (*pb.ListPublicChannelsResponse, error) {
	c.calls++
	return &pb.ListPublicChannelsResponse{Channels: c.channels}, nil
}

func TestSelectChannel_Keeps_Configured_Channel(t *testing.T) {
	req := require.New(t)
	client := &listingClient{}

	channelID, err := selectChannel(context.Background(), client, "random")

	req.NoError(err)
	req.Equal("random", channelID)
	req.Zero(client.calls)
}

func TestSelectChannel_Defaults_To_First_Public_Channel(t *testing.T) {
	req := require.New(t)
	client := &listingClient{channels: []pb.Channel{
		{ID: "general", Name: "general", Kind: "public"},
		{ID: "random", Name: "random", Kind: "public"},
	}}

	channelID, err := selectChannel(context.Background(), client, "")

	req.NoError(err)
	req.Equal("general", channelID)
}

func TestSelectChannel_Fails_Without_Public_Channel(t *testing.T) {
	req := require.New(t)

	_, err := selectChannel(context.Background(), &listingClient{}, "")

	req.Error(err)
}
