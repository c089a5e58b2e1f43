package handlers

import (
	"log/slog"

	"recipeapi/internal/middleware"
	"recipeapi/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles registration, token and profile requests.
type AuthHandler struct {
	userService *services.UserService
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(userService *services.UserService, authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		authService: authService,
		validate:    newValidator(),
	}
}

// RegisterRoutes registers the user routes. The profile routes sit behind auth.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	userRoutes := router.Group("/users")
	userRoutes.Post("/", h.HandleRegister)
	userRoutes.Post("/create", h.HandleRegister)
	userRoutes.Post("/token", h.HandleToken)

	me := userRoutes.Group("/me", auth)
	me.Get("/", h.HandleGetProfile)
	me.Patch("/", h.HandleUpdateProfile)
	me.Put("/", methodNotAllowed("GET, PATCH"))
	me.Post("/", methodNotAllowed("GET, PATCH"))
	me.Delete("/", methodNotAllowed("GET, PATCH"))
}

// HandleRegister creates a new user.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req CreateUserRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.userService.CreateUser(c.UserContext(), req.Email, req.Password, services.UserFields{Name: req.Name})
	if err != nil {
		slog.InfoContext(c.UserContext(), "registration rejected", "error", err)
		return serviceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(newUserResponse(user))
}

// HandleToken exchanges email and password for the user's API token.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	var req TokenRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	token, err := h.authService.IssueToken(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(fiber.Map{"token": token.Key})
}

// HandleGetProfile returns the authenticated user.
func (h *AuthHandler) HandleGetProfile(c *fiber.Ctx) error {
	return c.JSON(newUserResponse(middleware.CurrentUser(c)))
}

// HandleUpdateProfile partially updates the authenticated user.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if ok, err := bind(c, h.validate, &req); !ok {
		return err
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), middleware.CurrentUser(c).ID, services.ProfileUpdate{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(newUserResponse(user))
}
