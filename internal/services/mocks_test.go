package services_test

import (
	"context"
	"time"

	"recipeapi/internal/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockTokenRepository is a mock implementation of repositories.TokenRepository
type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) GetByUserID(ctx context.Context, userID string) (*models.AuthToken, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthToken), args.Error(1)
}

func (m *MockTokenRepository) GetByKey(ctx context.Context, key string) (*models.AuthToken, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthToken), args.Error(1)
}

func (m *MockTokenRepository) Create(ctx context.Context, token *models.AuthToken) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// MockTagRepository is a mock implementation of repositories.TagRepository
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) ListByOwner(ctx context.Context, userID string) ([]models.Tag, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Tag), args.Error(1)
}

func (m *MockTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) FindOwned(ctx context.Context, userID string, ids []string) ([]models.Tag, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).([]models.Tag), args.Error(1)
}

// MockIngredientRepository is a mock implementation of repositories.IngredientRepository
type MockIngredientRepository struct {
	mock.Mock
}

func (m *MockIngredientRepository) ListByOwner(ctx context.Context, userID string) ([]models.Ingredient, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

func (m *MockIngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	args := m.Called(ctx, ingredient)
	return args.Error(0)
}

func (m *MockIngredientRepository) FindOwned(ctx context.Context, userID string, ids []string) ([]models.Ingredient, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).([]models.Ingredient), args.Error(1)
}

// MockRecipeRepository is a mock implementation of repositories.RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) ListByOwner(ctx context.Context, userID string) ([]models.Recipe, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, userID, id string) (*models.Recipe, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, recipe *models.Recipe, tags []models.Tag, ingredients []models.Ingredient) error {
	args := m.Called(ctx, recipe, tags, ingredients)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, userID, id string) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event string, payload map[string]any) error {
	args := m.Called(ctx, event, payload)
	return args.Error(0)
}
