package repositories

import (
	"context"
	"time"

	"recipeapi/internal/models"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	// UpdateLastLogin writes only the last_login column.
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}

// TokenRepository defines the interface for auth token data access.
type TokenRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.AuthToken, error)
	// GetByKey returns the token together with its user.
	GetByKey(ctx context.Context, key string) (*models.AuthToken, error)
	Create(ctx context.Context, token *models.AuthToken) error
}
