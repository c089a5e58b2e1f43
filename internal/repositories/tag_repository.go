package repositories

import (
	"context"

	"recipeapi/internal/models"
)

// TagRepository defines the interface for tag data access. Every method is
// scoped to the owning user.
type TagRepository interface {
	ListByOwner(ctx context.Context, userID string) ([]models.Tag, error)
	Create(ctx context.Context, tag *models.Tag) error
	// FindOwned returns the subset of ids that exist and belong to userID.
	FindOwned(ctx context.Context, userID string, ids []string) ([]models.Tag, error)
}

// IngredientRepository defines the interface for ingredient data access.
// Every method is scoped to the owning user.
type IngredientRepository interface {
	ListByOwner(ctx context.Context, userID string) ([]models.Ingredient, error)
	Create(ctx context.Context, ingredient *models.Ingredient) error
	FindOwned(ctx context.Context, userID string, ids []string) ([]models.Ingredient, error)
}

// RecipeRepository defines the interface for recipe data access. Reads and
// writes only ever touch rows owned by the given user.
type RecipeRepository interface {
	ListByOwner(ctx context.Context, userID string) ([]models.Recipe, error)
	// GetByID loads the recipe with its tags and ingredients.
	GetByID(ctx context.Context, userID, id string) (*models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	// Update writes the scalar columns and, when the corresponding slice is
	// non-nil, replaces the tag or ingredient set.
	Update(ctx context.Context, recipe *models.Recipe, tags []models.Tag, ingredients []models.Ingredient) error
	Delete(ctx context.Context, userID, id string) error
}
