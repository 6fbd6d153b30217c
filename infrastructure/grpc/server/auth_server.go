package server

import (
	pb "chat-channels/api/chatv1"
	"chat-channels/errors"
	"chat-channels/services"
	"context"
)

type AuthServer struct {
	authService services.IAuthService
}

func NewAuthServer(authService services.IAuthService) *AuthServer {
	return &AuthServer{authService: authService}
}

// Register creates the account and its profile, then issues a token.
func (s *AuthServer) Register(ctx context.Context, in *pb.RegisterRequest) (*pb.AuthResponse, error) {
	token, userID, err := s.authService.Register(ctx, in.Email, in.Password, in.DisplayName)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.AuthResponse{Token: token.String(), UserID: string(userID)}, nil
}

func (s *AuthServer) Login(ctx context.Context, in *pb.LoginRequest) (*pb.AuthResponse, error) {
	token, userID, err := s.authService.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, errors.MapToGRPCError(err)
	}
	return &pb.AuthResponse{Token: token.String(), UserID: string(userID)}, nil
}
