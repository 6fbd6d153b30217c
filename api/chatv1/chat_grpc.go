package chatv1

import (
	"chat-channels/infrastructure/grpc/codec"
	"context"

	"google.golang.org/grpc"
)

const (
	ChatService_ListPublicChannels_FullMethodName = "/chat.v1.ChatService/ListPublicChannels"
	ChatService_ListDirectChannels_FullMethodName = "/chat.v1.ChatService/ListDirectChannels"
	ChatService_ListUsers_FullMethodName          = "/chat.v1.ChatService/ListUsers"
	ChatService_StartDirect_FullMethodName        = "/chat.v1.ChatService/StartDirect"
	ChatService_PostMessage_FullMethodName        = "/chat.v1.ChatService/PostMessage"
	ChatService_Watch_FullMethodName              = "/chat.v1.ChatService/Watch"
)

// ChatServiceServer requires an authenticated caller on every method.
type ChatServiceServer interface {
	ListPublicChannels(context.Context, *ListPublicChannelsRequest) (*ListPublicChannelsResponse, error)
	ListDirectChannels(context.Context, *ListDirectChannelsRequest) (*ListDirectChannelsResponse, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	StartDirect(context.Context, *StartDirectRequest) (*StartDirectResponse, error)
	PostMessage(context.Context, *PostMessageRequest) (*PostMessageResponse, error)
	Watch(*WatchRequest, grpc.ServerStreamingServer[WatchEvent]) error
}

func RegisterChatServiceServer(s grpc.ServiceRegistrar, srv ChatServiceServer) {
	s.RegisterService(&ChatService_ServiceDesc, srv)
}

func _ChatService_ListPublicChannels_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListPublicChannelsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatServiceServer).ListPublicChannels(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ChatService_ListPublicChannels_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChatServiceServer).ListPublicChannels(ctx, req.(*ListPublicChannelsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChatService_ListDirectChannels_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListDirectChannelsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatServiceServer).ListDirectChannels(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ChatService_ListDirectChannels_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChatServiceServer).ListDirectChannels(ctx, req.(*ListDirectChannelsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChatService_ListUsers_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListUsersRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatServiceServer).ListUsers(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ChatService_ListUsers_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChatServiceServer).ListUsers(ctx, req.(*ListUsersRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChatService_StartDirect_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StartDirectRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatServiceServer).StartDirect(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ChatService_StartDirect_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChatServiceServer).StartDirect(ctx, req.(*StartDirectRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChatService_PostMessage_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(PostMessageRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChatServiceServer).PostMessage(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ChatService_PostMessage_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ChatServiceServer).PostMessage(ctx, req.(*PostMessageRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _ChatService_Watch_Handler(srv any, stream grpc.ServerStream) error {
	in := new(WatchRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(ChatServiceServer).Watch(in, &grpc.GenericServerStream[WatchRequest, WatchEvent]{ServerStream: stream})
}

var ChatService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "chat.v1.ChatService",
	HandlerType: (*ChatServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListPublicChannels", Handler: _ChatService_ListPublicChannels_Handler},
		{MethodName: "ListDirectChannels", Handler: _ChatService_ListDirectChannels_Handler},
		{MethodName: "ListUsers", Handler: _ChatService_ListUsers_Handler},
		{MethodName: "StartDirect", Handler: _ChatService_StartDirect_Handler},
		{MethodName: "PostMessage", Handler: _ChatService_PostMessage_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "Watch", Handler: _ChatService_Watch_Handler, ServerStreams: true},
	},
}

type ChatServiceClient interface {
	ListPublicChannels(ctx context.Context, in *ListPublicChannelsRequest, opts ...grpc.CallOption) (*ListPublicChannelsResponse, error)
	ListDirectChannels(ctx context.Context, in *ListDirectChannelsRequest, opts ...grpc.CallOption) (*ListDirectChannelsResponse, error)
	ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error)
	StartDirect(ctx context.Context, in *StartDirectRequest, opts ...grpc.CallOption) (*StartDirectResponse, error)
	PostMessage(ctx context.Context, in *PostMessageRequest, opts ...grpc.CallOption) (*PostMessageResponse, error)
	Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[WatchEvent], error)
}

type chatServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewChatServiceClient(cc grpc.ClientConnInterface) ChatServiceClient {
	return &chatServiceClient{cc: cc}
}

func (c *chatServiceClient) ListPublicChannels(ctx context.Context, in *ListPublicChannelsRequest, opts ...grpc.CallOption) (*ListPublicChannelsResponse, error) {
	out := new(ListPublicChannelsResponse)
	if err := c.cc.Invoke(ctx, ChatService_ListPublicChannels_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) ListDirectChannels(ctx context.Context, in *ListDirectChannelsRequest, opts ...grpc.CallOption) (*ListDirectChannelsResponse, error) {
	out := new(ListDirectChannelsResponse)
	if err := c.cc.Invoke(ctx, ChatService_ListDirectChannels_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	out := new(ListUsersResponse)
	if err := c.cc.Invoke(ctx, ChatService_ListUsers_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) StartDirect(ctx context.Context, in *StartDirectRequest, opts ...grpc.CallOption) (*StartDirectResponse, error) {
	out := new(StartDirectResponse)
	if err := c.cc.Invoke(ctx, ChatService_StartDirect_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) PostMessage(ctx context.Context, in *PostMessageRequest, opts ...grpc.CallOption) (*PostMessageResponse, error) {
	out := new(PostMessageResponse)
	if err := c.cc.Invoke(ctx, ChatService_PostMessage_FullMethodName, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *chatServiceClient) Watch(ctx context.Context, in *WatchRequest, opts ...grpc.CallOption) (grpc.ServerStreamingClient[WatchEvent], error) {
	stream, err := c.cc.NewStream(ctx, &ChatService_ServiceDesc.Streams[0], ChatService_Watch_FullMethodName, withCodec(opts)...)
	if err != nil {
		return nil, err
	}
	x := &grpc.GenericClientStream[WatchRequest, WatchEvent]{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}

// withCodec selects the JSON codec, explicit options still win.
func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
}
