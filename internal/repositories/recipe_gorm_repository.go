package repositories

import (
	"context"
	"fmt"

	"recipeapi/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{db: db}
}

// ListByOwner returns the user's recipes, newest first, with their tag and
// ingredient references loaded.
func (r *GORMRecipeRepository) ListByOwner(ctx context.Context, userID string) ([]models.Recipe, error) {
	recipes := []models.Recipe{}
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// GetByID retrieves a recipe owned by userID. Recipes of other users are
// reported as not found.
func (r *GORMRecipeRepository) GetByID(ctx context.Context, userID, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name DESC") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("name DESC") }).
		First(&recipe, "id = ? AND user_id = ?", id, userID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe by ID %s: %w", id, translate(err))
	}
	return &recipe, nil
}

// Create inserts the recipe and its join rows. Tags and ingredients must
// already exist; they are linked, never upserted.
func (r *GORMRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Omit("User", "Tags.*", "Ingredients.*").Create(recipe).Error
	if err != nil {
		return fmt.Errorf("failed to create recipe: %w", translate(err))
	}
	return nil
}

func (r *GORMRecipeRepository) Update(ctx context.Context, recipe *models.Recipe, tags []models.Tag, ingredients []models.Ingredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).
			Where("id = ? AND user_id = ?", recipe.ID, recipe.UserID).
			Select("title", "time_minutes", "price", "link", "updated_at").
			Updates(map[string]any{
				"title":        recipe.Title,
				"time_minutes": recipe.TimeMinutes,
				"price":        recipe.Price,
				"link":         recipe.Link,
				"updated_at":   tx.NowFunc(),
			})
		if res.Error != nil {
			return fmt.Errorf("failed to update recipe: %w", translate(res.Error))
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("recipe with ID %s not found for update: %w", recipe.ID, ErrNotFound)
		}

		if tags != nil {
			if err := replaceAssociation(tx, recipe, "Tags", tags); err != nil {
				return fmt.Errorf("failed to replace recipe tags: %w", err)
			}
			recipe.Tags = tags
		}
		if ingredients != nil {
			if err := replaceAssociation(tx, recipe, "Ingredients", ingredients); err != nil {
				return fmt.Errorf("failed to replace recipe ingredients: %w", err)
			}
			recipe.Ingredients = ingredients
		}
		return nil
	})
}

// replaceAssociation links recipe to exactly the given rows. An empty set
// removes every link.
func replaceAssociation[T any](tx *gorm.DB, recipe *models.Recipe, name string, rows []T) error {
	assoc := tx.Model(recipe).Omit(name + ".*").Association(name)
	if len(rows) == 0 {
		return assoc.Clear()
	}
	return assoc.Replace(rows)
}

// Delete removes an owned recipe together with its join rows.
func (r *GORMRecipeRepository) Delete(ctx context.Context, userID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe models.Recipe
		if err := tx.First(&recipe, "id = ? AND user_id = ?", id, userID).Error; err != nil {
			return fmt.Errorf("recipe with ID %s not found for deletion: %w", id, translate(err))
		}
		if err := tx.Model(&recipe).Association("Tags").Clear(); err != nil {
			return fmt.Errorf("failed to unlink recipe tags: %w", err)
		}
		if err := tx.Model(&recipe).Association("Ingredients").Clear(); err != nil {
			return fmt.Errorf("failed to unlink recipe ingredients: %w", err)
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
}
