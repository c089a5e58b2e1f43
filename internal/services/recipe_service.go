package services

import (
	"context"
	"fmt"
	"strings"

	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
)

// RecipeInput carries recipe fields from a request. Nil fields are absent:
// Create requires Title, TimeMinutes and Price, Update leaves absent fields
// unchanged. A nil Tags or Ingredients slice keeps the current set, an empty
// one clears it.
type RecipeInput struct {
	Title       *string
	TimeMinutes *int
	Price       *models.Price
	Link        *string
	Tags        []string
	Ingredients []string
}

// trimmed returns a copy with whitespace stripped from the text fields.
func (in RecipeInput) trimmed() RecipeInput {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}
	if in.Link != nil {
		link := strings.TrimSpace(*in.Link)
		in.Link = &link
	}
	return in
}

// RecipeService handles business logic related to recipes.
type RecipeService struct {
	recipeRepo     repositories.RecipeRepository
	tagRepo        repositories.TagRepository
	ingredientRepo repositories.IngredientRepository
	events         EventPublisher
}

// NewRecipeService creates a new RecipeService.
func NewRecipeService(
	recipeRepo repositories.RecipeRepository,
	tagRepo repositories.TagRepository,
	ingredientRepo repositories.IngredientRepository,
	events EventPublisher,
) *RecipeService {
	return &RecipeService{
		recipeRepo:     recipeRepo,
		tagRepo:        tagRepo,
		ingredientRepo: ingredientRepo,
		events:         events,
	}
}

// ListRecipes returns the caller's recipes.
func (s *RecipeService) ListRecipes(ctx context.Context, callerID string) ([]models.Recipe, error) {
	return s.recipeRepo.ListByOwner(ctx, callerID)
}

// GetRecipe returns one of the caller's recipes with tags and ingredients loaded.
func (s *RecipeService) GetRecipe(ctx context.Context, callerID, id string) (*models.Recipe, error) {
	return s.recipeRepo.GetByID(ctx, callerID, id)
}

// CreateRecipe validates the input and stores a recipe owned by the caller.
// Referenced tags and ingredients must exist and belong to the caller.
func (s *RecipeService) CreateRecipe(ctx context.Context, callerID string, in RecipeInput) (*models.Recipe, error) {
	in = in.trimmed()
	verr := &ValidationError{}
	if in.Title == nil {
		verr.Add("title", "this field is required")
	}
	if in.TimeMinutes == nil {
		verr.Add("time_minutes", "this field is required")
	}
	if in.Price == nil {
		verr.Add("price", "this field is required")
	}
	validateRecipeFields(in, verr)

	tags, ingredients, err := s.resolveRelations(ctx, callerID, in, verr)
	if err != nil {
		return nil, err
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	recipe := &models.Recipe{
		UserID:      callerID,
		Title:       *in.Title,
		TimeMinutes: *in.TimeMinutes,
		Price:       *in.Price,
		Tags:        tags,
		Ingredients: ingredients,
	}
	if in.Link != nil {
		recipe.Link = *in.Link
	}
	if err := s.recipeRepo.Create(ctx, recipe); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	publish(ctx, s.events, EventRecipeCreated, recipeEvent(recipe))
	return recipe, nil
}

// UpdateRecipe applies the present fields of in to one of the caller's recipes.
func (s *RecipeService) UpdateRecipe(ctx context.Context, callerID, id string, in RecipeInput) (*models.Recipe, error) {
	recipe, err := s.recipeRepo.GetByID(ctx, callerID, id)
	if err != nil {
		return nil, err
	}

	in = in.trimmed()
	verr := &ValidationError{}
	validateRecipeFields(in, verr)
	tags, ingredients, err := s.resolveRelations(ctx, callerID, in, verr)
	if err != nil {
		return nil, err
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}

	if in.Title != nil {
		recipe.Title = *in.Title
	}
	if in.TimeMinutes != nil {
		recipe.TimeMinutes = *in.TimeMinutes
	}
	if in.Price != nil {
		recipe.Price = *in.Price
	}
	if in.Link != nil {
		recipe.Link = *in.Link
	}

	if err := s.recipeRepo.Update(ctx, recipe, tags, ingredients); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	publish(ctx, s.events, EventRecipeUpdated, recipeEvent(recipe))
	return recipe, nil
}

// DeleteRecipe removes one of the caller's recipes.
func (s *RecipeService) DeleteRecipe(ctx context.Context, callerID, id string) error {
	if err := s.recipeRepo.Delete(ctx, callerID, id); err != nil {
		return err
	}
	publish(ctx, s.events, EventRecipeDeleted, map[string]any{
		"recipe_id": id,
		"user_id":   callerID,
	})
	return nil
}

func validateRecipeFields(in RecipeInput, verr *ValidationError) {
	if in.Title != nil && *in.Title == "" {
		verr.Add("title", "this field may not be blank")
	}
	if in.TimeMinutes != nil && *in.TimeMinutes < 0 {
		verr.Add("time_minutes", "ensure this value is greater than or equal to 0")
	}
}

// resolveRelations loads the referenced tags and ingredients. Ids that do
// not exist, or belong to another user, are recorded on verr.
func (s *RecipeService) resolveRelations(ctx context.Context, callerID string, in RecipeInput, verr *ValidationError) ([]models.Tag, []models.Ingredient, error) {
	var tags []models.Tag
	if in.Tags != nil {
		ids := uniqueIDs(in.Tags)
		found, err := s.tagRepo.FindOwned(ctx, callerID, ids)
		if err != nil {
			return nil, nil, err
		}
		byID := make(map[string]models.Tag, len(found))
		for _, t := range found {
			byID[t.ID] = t
		}
		tags = make([]models.Tag, 0, len(ids))
		for _, id := range ids {
			t, ok := byID[id]
			if !ok {
				verr.Add("tags", fmt.Sprintf("invalid pk %q - object does not exist", id))
				continue
			}
			tags = append(tags, t)
		}
	}

	var ingredients []models.Ingredient
	if in.Ingredients != nil {
		ids := uniqueIDs(in.Ingredients)
		found, err := s.ingredientRepo.FindOwned(ctx, callerID, ids)
		if err != nil {
			return nil, nil, err
		}
		byID := make(map[string]models.Ingredient, len(found))
		for _, i := range found {
			byID[i.ID] = i
		}
		ingredients = make([]models.Ingredient, 0, len(ids))
		for _, id := range ids {
			i, ok := byID[id]
			if !ok {
				verr.Add("ingredients", fmt.Sprintf("invalid pk %q - object does not exist", id))
				continue
			}
			ingredients = append(ingredients, i)
		}
	}
	return tags, ingredients, nil
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func recipeEvent(r *models.Recipe) map[string]any {
	return map[string]any{
		"recipe_id":      r.ID,
		"user_id":        r.UserID,
		"title":          r.Title,
		"price":          r.Price.String(),
		"tag_ids":        r.TagIDs(),
		"ingredient_ids": r.IngredientIDs(),
	}
}
