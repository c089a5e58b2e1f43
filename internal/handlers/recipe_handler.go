package handlers

import (
	"recipeapi/internal/middleware"
	"recipeapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	service  *services.RecipeService
	validate *validator.Validate
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(service *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		service:  service,
		validate: newValidator(),
	}
}

// RegisterRoutes registers the recipe routes.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router) {
	recipeRoutes := router.Group("/recipes")
	recipeRoutes.Get("/", h.HandleGetRecipes)
	recipeRoutes.Post("/", h.HandleCreateRecipe)
	recipeRoutes.Get("/:id", h.HandleGetRecipeByID)
	recipeRoutes.Put("/:id", h.HandleReplaceRecipe)
	recipeRoutes.Patch("/:id", h.HandlePatchRecipe)
	recipeRoutes.Delete("/:id", h.HandleDeleteRecipe)
}

// HandleGetRecipes lists the caller's recipes in the summary representation.
func (h *RecipeHandler) HandleGetRecipes(c *fiber.Ctx) error {
	recipes, err := h.service.ListRecipes(c.UserContext(), middleware.CurrentUser(c).ID)
	if err != nil {
		return serviceError(c, err)
	}
	out := make([]RecipeResponse, 0, len(recipes))
	for i := range recipes {
		out = append(out, newRecipeResponse(&recipes[i]))
	}
	return c.JSON(out)
}

// HandleGetRecipeByID returns one recipe in the detail representation.
func (h *RecipeHandler) HandleGetRecipeByID(c *fiber.Ctx) error {
	recipe, err := h.service.GetRecipe(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(newRecipeDetailResponse(recipe))
}

// HandleCreateRecipe creates a recipe owned by the caller.
func (h *RecipeHandler) HandleCreateRecipe(c *fiber.Ctx) error {
	var req RecipeRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	recipe, err := h.service.CreateRecipe(c.UserContext(), middleware.CurrentUser(c).ID, RecipePatchRequest(req).input())
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newRecipeResponse(recipe))
}

// HandleReplaceRecipe is PUT: title, time_minutes and price must be present.
func (h *RecipeHandler) HandleReplaceRecipe(c *fiber.Ctx) error {
	var req RecipeRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	return h.update(c, RecipePatchRequest(req))
}

// HandlePatchRecipe is PATCH: only the fields present are changed.
func (h *RecipeHandler) HandlePatchRecipe(c *fiber.Ctx) error {
	var req RecipePatchRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}
	return h.update(c, req)
}

func (h *RecipeHandler) update(c *fiber.Ctx, req RecipePatchRequest) error {
	recipe, err := h.service.UpdateRecipe(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("id"), req.input())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(newRecipeResponse(recipe))
}

// HandleDeleteRecipe deletes one of the caller's recipes.
func (h *RecipeHandler) HandleDeleteRecipe(c *fiber.Ctx) error {
	if err := h.service.DeleteRecipe(c.UserContext(), middleware.CurrentUser(c).ID, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
