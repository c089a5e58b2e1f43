package repositories

import (
	"context"
	"fmt"

	"recipeapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMTagRepository is a GORM implementation of TagRepository.
type GORMTagRepository struct {
	db *gorm.DB
}

// NewGORMTagRepository creates a new instance of GORMTagRepository.
func NewGORMTagRepository(db *gorm.DB) *GORMTagRepository {
	return &GORMTagRepository{db: db}
}

// ListByOwner returns the user's tags ordered by name, descending.
func (r *GORMTagRepository) ListByOwner(ctx context.Context, userID string) ([]models.Tag, error) {
	tags := []models.Tag{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name DESC").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (r *GORMTagRepository) Create(ctx context.Context, tag *models.Tag) error {
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("User").Create(tag).Error; err != nil {
		return fmt.Errorf("failed to create tag: %w", translate(err))
	}
	return nil
}

func (r *GORMTagRepository) FindOwned(ctx context.Context, userID string, ids []string) ([]models.Tag, error) {
	tags := []models.Tag{}
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to find tags: %w", err)
	}
	return tags, nil
}

// GORMIngredientRepository is a GORM implementation of IngredientRepository.
type GORMIngredientRepository struct {
	db *gorm.DB
}

// NewGORMIngredientRepository creates a new instance of GORMIngredientRepository.
func NewGORMIngredientRepository(db *gorm.DB) *GORMIngredientRepository {
	return &GORMIngredientRepository{db: db}
}

// ListByOwner returns the user's ingredients ordered by name, descending.
func (r *GORMIngredientRepository) ListByOwner(ctx context.Context, userID string) ([]models.Ingredient, error) {
	ingredients := []models.Ingredient{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("name DESC").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func (r *GORMIngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	if ingredient.ID == "" {
		ingredient.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Omit("User").Create(ingredient).Error; err != nil {
		return fmt.Errorf("failed to create ingredient: %w", translate(err))
	}
	return nil
}

func (r *GORMIngredientRepository) FindOwned(ctx context.Context, userID string, ids []string) ([]models.Ingredient, error) {
	ingredients := []models.Ingredient{}
	if len(ids) == 0 {
		return ingredients, nil
	}
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id IN ?", userID, ids).Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to find ingredients: %w", err)
	}
	return ingredients, nil
}
