package services

import (
	"context"
	"fmt"
	"strings"

	"recipeapi/internal/models"
	"recipeapi/internal/repositories"
)

// TagService handles business logic related to tags.
type TagService struct {
	repo   repositories.TagRepository
	events EventPublisher
}

// NewTagService creates a new TagService.
func NewTagService(repo repositories.TagRepository, events EventPublisher) *TagService {
	return &TagService{repo: repo, events: events}
}

// ListTags returns the caller's tags, name descending.
func (s *TagService) ListTags(ctx context.Context, callerID string) ([]models.Tag, error) {
	return s.repo.ListByOwner(ctx, callerID)
}

// CreateTag stores a tag owned by the caller. Surrounding whitespace is
// stripped from the name.
func (s *TagService) CreateTag(ctx context.Context, callerID, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "this field may not be blank")
	}
	tag := &models.Tag{Name: name, UserID: callerID}
	if err := s.repo.Create(ctx, tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	publish(ctx, s.events, EventTagCreated, map[string]any{
		"tag_id":  tag.ID,
		"user_id": callerID,
		"name":    tag.Name,
	})
	return tag, nil
}

// IngredientService handles business logic related to ingredients.
type IngredientService struct {
	repo   repositories.IngredientRepository
	events EventPublisher
}

// NewIngredientService creates a new IngredientService.
func NewIngredientService(repo repositories.IngredientRepository, events EventPublisher) *IngredientService {
	return &IngredientService{repo: repo, events: events}
}

// ListIngredients returns the caller's ingredients, name descending.
func (s *IngredientService) ListIngredients(ctx context.Context, callerID string) ([]models.Ingredient, error) {
	return s.repo.ListByOwner(ctx, callerID)
}

// CreateIngredient stores an ingredient owned by the caller.
func (s *IngredientService) CreateIngredient(ctx context.Context, callerID, name string) (*models.Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "this field may not be blank")
	}
	ingredient := &models.Ingredient{Name: name, UserID: callerID}
	if err := s.repo.Create(ctx, ingredient); err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	publish(ctx, s.events, EventIngredientCreated, map[string]any{
		"ingredient_id": ingredient.ID,
		"user_id":       callerID,
		"name":          ingredient.Name,
	})
	return ingredient, nil
}
