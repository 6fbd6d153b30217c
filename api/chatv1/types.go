// Package chatv1 holds the wire types and service descriptors of the
// chat.v1 gRPC API. Payloads travel as JSON, see infrastructure/grpc/codec.
package chatv1

import "time"

type Profile struct {
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
}

type Channel struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	CreatedBy string    `json:"created_by,omitempty"`
}

type DirectChannel struct {
	Channel   Channel `json:"channel"`
	OtherUser Profile `json:"other_user"`
}

type Message struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channel_id"`
	Sender    Profile   `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ListPublicChannelsRequest struct{}

type ListPublicChannelsResponse struct {
	Channels []Channel `json:"channels"`
}

type ListDirectChannelsRequest struct{}

type ListDirectChannelsResponse struct {
	Channels []DirectChannel `json:"channels"`
}

type ListUsersRequest struct {
	Limit int `json:"limit,omitempty"`
}

type ListUsersResponse struct {
	Users []Profile `json:"users"`
}

type StartDirectRequest struct {
	OtherUserID string `json:"other_user_id"`
}

type StartDirectResponse struct {
	Channel        DirectChannel   `json:"channel"`
	DirectChannels []DirectChannel `json:"direct_channels,omitempty"`
}

type WatchRequest struct {
	ChannelID string `json:"channel_id"`
}

// WatchEvent is either the initial history of the watched channel or a
// single appended message.
type WatchEvent struct {
	Channel *Channel  `json:"channel,omitempty"`
	History []Message `json:"history,omitempty"`
	Message *Message  `json:"message,omitempty"`
}

type PostMessageRequest struct {
	ChannelID string `json:"channel_id"`
	Content   string `json:"content"`
}

type PostMessageResponse struct {
	Success bool `json:"success"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}
