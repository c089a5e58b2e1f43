package handlers

import (
	"recipeapi/internal/middleware"
	"recipeapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// TagHandler handles HTTP requests for tags and ingredients. Both are
// list-and-create only.
type TagHandler struct {
	tags        *services.TagService
	ingredients *services.IngredientService
	validate    *validator.Validate
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tags *services.TagService, ingredients *services.IngredientService) *TagHandler {
	return &TagHandler{
		tags:        tags,
		ingredients: ingredients,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the tag and ingredient routes.
func (h *TagHandler) RegisterRoutes(router fiber.Router) {
	for path, list := range map[string]fiber.Handler{
		"/tags":        h.HandleListTags,
		"/ingredients": h.HandleListIngredients,
	} {
		router.Get(path, list)
		router.Put(path, methodNotAllowed("GET, POST"))
		router.Patch(path, methodNotAllowed("GET, POST"))
		router.Delete(path, methodNotAllowed("GET, POST"))
	}
	router.Post("/tags", h.HandleCreateTag)
	router.Post("/ingredients", h.HandleCreateIngredient)
}

func (h *TagHandler) HandleListTags(c *fiber.Ctx) error {
	tags, err := h.tags.ListTags(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(tags)
}

func (h *TagHandler) HandleCreateTag(c *fiber.Ctx) error {
	var req NameRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	tag, err := h.tags.CreateTag(c.UserContext(), middleware.CurrentUser(c).ID, req.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

func (h *TagHandler) HandleListIngredients(c *fiber.Ctx) error {
	ingredients, err := h.ingredients.ListIngredients(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(ingredients)
}

func (h *TagHandler) HandleCreateIngredient(c *fiber.Ctx) error {
	var req NameRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	ingredient, err := h.ingredients.CreateIngredient(c.UserContext(), middleware.CurrentUser(c).ID, req.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ingredient)
}
