package repositories

import (
	"context"
	"fmt"
	"time"

	"recipeapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", translate(err))
	}
	return nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, translate(err))
	}
	return &user, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, translate(err))
	}
	return &user, nil
}

// Update writes every column of an existing user.
func (r *GORMUserRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).Model(user).Select("*").Omit("id", "created_at").Updates(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for update: %w", user.ID, ErrNotFound)
	}
	return nil
}

// UpdateLastLogin stamps the login time without touching any other column,
// so a concurrent profile change is never overwritten.
func (r *GORMUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("last_login", at)
	if res.Error != nil {
		return fmt.Errorf("failed to update last login: %w", translate(res.Error))
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for update: %w", id, ErrNotFound)
	}
	return nil
}

// GORMTokenRepository is a GORM implementation of TokenRepository.
type GORMTokenRepository struct {
	db *gorm.DB
}

// NewGORMTokenRepository creates a new instance of GORMTokenRepository.
func NewGORMTokenRepository(db *gorm.DB) *GORMTokenRepository {
	return &GORMTokenRepository{
		db: db,
	}
}

func (r *GORMTokenRepository) GetByUserID(ctx context.Context, userID string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).First(&token, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get token for user %s: %w", userID, translate(err))
	}
	return &token, nil
}

func (r *GORMTokenRepository) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	var token models.AuthToken
	if err := r.db.WithContext(ctx).Preload("User").First(&token, "key = ?", key).Error; err != nil {
		return nil, fmt.Errorf("failed to get token: %w", translate(err))
	}
	if token.User == nil {
		return nil, fmt.Errorf("token without user: %w", ErrNotFound)
	}
	return &token, nil
}

func (r *GORMTokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(token).Error; err != nil {
		return fmt.Errorf("failed to create token: %w", translate(err))
	}
	return nil
}
