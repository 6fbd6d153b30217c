package services

import (
	"chat-channels/auth"
	"chat-channels/domain/chat"
	"chat-channels/errors"
	"chat-channels/repositories"
	"context"
	"fmt"
	"strings"
)

type IAuthService interface {
	Login(ctx context.Context, email, password string) (Token, chat.UserID, error)
	Register(ctx context.Context, email, password, displayName string) (Token, chat.UserID, error)
}

// AuthService is the identity provider: it owns credentials and issues the
// bearer tokens the gRPC interceptor turns back into a user id.
type AuthService struct {
	accounts repositories.IAccountRepository
	profiles repositories.IProfileRepository
	issuer   *auth.TokenIssuer
}

type Token string

func (t Token) String() string {
	return string(t)
}

func NewAuthService(accounts repositories.IAccountRepository, profiles repositories.IProfileRepository, issuer *auth.TokenIssuer) IAuthService {
	return &AuthService{accounts: accounts, profiles: profiles, issuer: issuer}
}

// Register creates the account and the public profile other users see.
func (s *AuthService) Register(ctx context.Context, email, password, displayName string) (Token, chat.UserID, error) {
	displayName = strings.TrimSpace(displayName)
	valReq := auth.RegisterRequest{Email: email, Password: password, DisplayName: displayName}

	// Validate before any expensive cryptographic operation
	if err := auth.ValidateRegister(valReq); err != nil {
		return "", "", fmt.Errorf("%w: %v", errors.ErrInvalidPassword, err)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", "", fmt.Errorf("hashing failed: %w", err)
	}

	userID, err := s.accounts.CreateAccount(ctx, email, hashedPassword)
	if err != nil {
		return "", "", err
	}
	if err = s.profiles.SaveProfile(ctx, chat.Profile{UserID: userID, DisplayName: displayName}); err != nil {
		return "", "", err
	}

	token, err := s.issuer.GenerateToken(userID, []string{"user"})
	if err != nil {
		return "", "", errors.ErrTokenGeneration
	}
	return Token(token), userID, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (Token, chat.UserID, error) {
	account, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		// Generic error to prevent user enumeration
		return "", "", errors.ErrInvalidCredentials
	}

	match, err := auth.ComparePassword(password, account.PasswordHash)
	if err != nil || !match {
		return "", "", errors.ErrInvalidCredentials
	}

	token, err := s.issuer.GenerateToken(chat.UserID(account.ID), account.Roles)
	if err != nil {
		return "", "", errors.ErrTokenGeneration
	}
	return Token(token), chat.UserID(account.ID), nil
}
