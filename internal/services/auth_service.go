package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
)

const tokenKeyBytes = 20

// AuthService issues and resolves opaque per-user API tokens.
type AuthService struct {
	users     *UserService
	userRepo  repositories.UserRepository
	tokenRepo repositories.TokenRepository
	now       func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(users *UserService, userRepo repositories.UserRepository, tokenRepo repositories.TokenRepository) *AuthService {
	return &AuthService{
		users:     users,
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		now:       time.Now,
	}
}

// IssueToken authenticates the credentials and returns the user's token,
// creating it on first use.
func (s *AuthService) IssueToken(ctx context.Context, email, password string) (*models.AuthToken, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokenRepo.GetByUserID(ctx, user.ID)
	if errors.Is(err, repositories.ErrNotFound) {
		token, err = s.createToken(ctx, user.ID)
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	user.LastLogin = &now
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		slog.WarnContext(ctx, "failed to record last login", "user_id", user.ID, "error", err)
	}

	token.User = user
	return token, nil
}

// ResolveToken returns the active user owning the token key.
func (s *AuthService) ResolveToken(ctx context.Context, key string) (*models.User, error) {
	if key == "" {
		return nil, ErrInvalidToken
	}
	token, err := s.tokenRepo.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	if !token.User.IsActive {
		return nil, ErrInvalidToken
	}
	return token.User, nil
}

func (s *AuthService) createToken(ctx context.Context, userID string) (*models.AuthToken, error) {
	key, err := generateKey()
	if err != nil {
		return nil, err
	}
	token := &models.AuthToken{Key: key, UserID: userID}
	if err := s.tokenRepo.Create(ctx, token); err != nil {
		// A concurrent login may have created the token first.
		if errors.Is(err, repositories.ErrDuplicate) {
			return s.tokenRepo.GetByUserID(ctx, userID)
		}
		return nil, err
	}
	return token, nil
}

func generateKey() (string, error) {
	b := make([]byte, tokenKeyBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
