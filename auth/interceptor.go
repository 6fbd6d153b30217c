package auth

import (
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RolesKey  contextKey = "roles"
)

// Interceptor handles JWT validation for incoming gRPC calls.
// Methods listed as public (Login/Register) skip it.
type Interceptor struct {
	issuer        *TokenIssuer
	publicMethods map[string]struct{}
}

func NewInterceptor(issuer *TokenIssuer, publicMethods ...string) *Interceptor {
	methods := make(map[string]struct{}, len(publicMethods))
	for _, m := range publicMethods {
		methods[m] = struct{}{}
	}
	return &Interceptor{issuer: issuer, publicMethods: methods}
}

func (i *Interceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if i.isPublicMethod(info.FullMethod) {
			return handler(ctx, req)
		}
		newCtx, err := i.authenticate(ctx)
		if err != nil {
			return nil, err
		}
		return handler(newCtx, req)
	}
}

func (i *Interceptor) Stream() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if i.isPublicMethod(info.FullMethod) {
			return handler(srv, ss)
		}
		newCtx, err := i.authenticate(ss.Context())
		if err != nil {
			return err
		}
		return handler(srv, &authenticatedStream{ServerStream: ss, ctx: newCtx})
	}
}

// authenticate expects the standard "authorization: Bearer <token>" header
// and injects the user identity into the context for the service layers.
func (i *Interceptor) authenticate(ctx context.Context) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "metadata is missing")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "authorization token is missing")
	}
	tokenStr := strings.TrimPrefix(values[0], "Bearer ")

	claims, err := i.issuer.ValidateToken(tokenStr)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
	}

	newCtx := context.WithValue(ctx, UserIDKey, chat.UserID(claims.UserID))
	return context.WithValue(newCtx, RolesKey, claims.Roles), nil
}

func (i *Interceptor) isPublicMethod(method string) bool {
	_, ok := i.publicMethods[method]
	return ok
}

// UserIDFromContext returns the identity injected by the interceptor.
func UserIDFromContext(ctx context.Context) (chat.UserID, error) {
	userID, ok := ctx.Value(UserIDKey).(chat.UserID)
	if !ok || userID == "" {
		return "", errors.ErrUnauthenticated
	}
	return userID, nil
}

// WithUserID is what the interceptor does, for in-process callers and tests.
func WithUserID(ctx context.Context, userID chat.UserID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context {
	return s.ctx
}
