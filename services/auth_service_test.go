package services

import (
	"chat-channels/auth"
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"chat-channels/mocks"
	"chat-channels/repositories"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockIAccountRepository(ctrl)
	mockProfiles := mocks.NewMockIProfileRepository(ctrl)
	issuer := auth.NewTokenIssuer("test-secret", 24*time.Hour)
	svc := NewAuthService(mockAccounts, mockProfiles, issuer)
	ctx := context.Background()

	t.Run("should register and create the public profile", func(t *testing.T) {
		req := require.New(t)
		email := "alice@example.com"
		password := "ComplexPass123!"

		// The stored hash is never the plain password
		mockAccounts.EXPECT().
			CreateAccount(gomock.Any(), email, gomock.Not(password)).
			Return(chat.UserID("user-uuid"), nil).
			Times(1)
		mockProfiles.EXPECT().
			SaveProfile(gomock.Any(), chat.Profile{UserID: "user-uuid", DisplayName: "Alice"}).
			Return(nil).
			Times(1)

		token, userID, err := svc.Register(ctx, email, password, "  Alice ")

		req.NoError(err)
		req.Equal(chat.UserID("user-uuid"), userID)
		claims, err := issuer.ValidateToken(token.String())
		req.NoError(err)
		req.Equal("user-uuid", claims.UserID)
	})

	t.Run("should fail when password complexity is not met", func(t *testing.T) {
		req := require.New(t)

		// Neither repository is called
		token, _, err := svc.Register(ctx, "bob@example.com", "simple", "Bob")

		req.ErrorIs(err, errors.ErrInvalidPassword)
		req.Empty(token)
	})

	t.Run("should fail when the display name is blank", func(t *testing.T) {
		req := require.New(t)

		_, _, err := svc.Register(ctx, "bob@example.com", "ComplexPass123!", "   ")

		req.Error(err)
	})

	t.Run("should fail when user already exists", func(t *testing.T) {
		req := require.New(t)
		email := "duplicate@example.com"

		mockAccounts.EXPECT().
			CreateAccount(gomock.Any(), email, gomock.Any()).
			Return(chat.UserID(""), errors.ErrUserAlreadyExists).
			Times(1)

		_, _, err := svc.Register(ctx, email, "ComplexPass123!", "Dup")

		req.ErrorIs(err, errors.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAccounts := mocks.NewMockIAccountRepository(ctrl)
	issuer := auth.NewTokenIssuer("test-secret", 24*time.Hour)
	svc := NewAuthService(mockAccounts, mocks.NewMockIProfileRepository(ctrl), issuer)
	ctx := context.Background()

	t.Run("should login successfully with correct credentials", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"
		password := "Secret123456!"

		hashedPassword, err := auth.HashPassword(password)
		req.NoError(err)
		stored := repositories.Account{
			ID:           "uuid-123",
			Email:        email,
			PasswordHash: hashedPassword,
			Roles:        []string{"user"},
		}

		mockAccounts.EXPECT().
			GetAccountByEmail(gomock.Any(), email).
			Return(stored, nil).
			Times(1)

		token, userID, err := svc.Login(ctx, email, password)

		req.NoError(err)
		req.Equal(chat.UserID("uuid-123"), userID)
		claims, err := issuer.ValidateToken(token.String())
		req.NoError(err)
		req.Equal("uuid-123", claims.UserID)
		req.Equal([]string{"user"}, claims.Roles)
	})

	t.Run("should return invalid credentials when password does not match", func(t *testing.T) {
		req := require.New(t)
		email := "user@example.com"

		hashedPassword, err := auth.HashPassword("CorrectPassword123!")
		req.NoError(err)

		mockAccounts.EXPECT().
			GetAccountByEmail(gomock.Any(), email).
			Return(repositories.Account{Email: email, PasswordHash: hashedPassword}, nil).
			Times(1)

		_, _, err = svc.Login(ctx, email, "WrongPassword123!")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})

	t.Run("should return invalid credentials when user is not found", func(t *testing.T) {
		req := require.New(t)

		mockAccounts.EXPECT().
			GetAccountByEmail(gomock.Any(), "unknown@example.com").
			Return(repositories.Account{}, errors.ErrInvalidCredentials).
			Times(1)

		_, _, err := svc.Login(ctx, "unknown@example.com", "anyPassword")

		req.ErrorIs(err, errors.ErrInvalidCredentials)
	})
}
