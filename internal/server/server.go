package server

import (
	"time"

	"recipeapi/internal/database"
	"recipeapi/internal/handlers"
	"recipeapi/internal/middleware"
	"recipeapi/internal/repositories"
	"recipeapi/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

// Options configures the application.
type Options struct {
	DB *gorm.DB
	// Events receives domain events. Leave nil to disable publishing.
	Events services.EventPublisher
	// BcryptCost for password hashing; zero selects bcrypt.DefaultCost.
	BcryptCost int
	// Registry enables request metrics and the /metrics endpoint when set.
	Registry *prometheus.Registry
	// AccessLog enables the per-request access log.
	AccessLog bool
}

// App bundles the Fiber app with the user service it was wired with.
type App struct {
	*fiber.App
	Users *services.UserService
}

// New wires repositories, services and handlers into a Fiber app.
func New(opts Options) *App {
	userRepo := repositories.NewGORMUserRepository(opts.DB)
	tokenRepo := repositories.NewGORMTokenRepository(opts.DB)
	tagRepo := repositories.NewGORMTagRepository(opts.DB)
	ingredientRepo := repositories.NewGORMIngredientRepository(opts.DB)
	recipeRepo := repositories.NewGORMRecipeRepository(opts.DB)

	userService := services.NewUserService(userRepo, opts.Events, opts.BcryptCost)
	authService := services.NewAuthService(userService, userRepo, tokenRepo)
	tagService := services.NewTagService(tagRepo, opts.Events)
	ingredientService := services.NewIngredientService(ingredientRepo, opts.Events)
	recipeService := services.NewRecipeService(recipeRepo, tagRepo, ingredientRepo, opts.Events)

	authHandler := handlers.NewAuthHandler(userService, authService)
	tagHandler := handlers.NewTagHandler(tagService, ingredientService)
	recipeHandler := handlers.NewRecipeHandler(recipeService)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})
	app.Use(recover.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	if opts.Registry != nil {
		app.Use(middleware.NewMetrics(opts.Registry).Handler())
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		status, code := "healthy", fiber.StatusOK
		if err := database.Ping(c.UserContext(), opts.DB); err != nil {
			status, code = "unhealthy", fiber.StatusServiceUnavailable
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	auth := middleware.AuthRequired(authService)
	authHandler.RegisterRoutes(app, auth)

	recipeRoutes := app.Group("/recipe", auth)
	tagHandler.RegisterRoutes(recipeRoutes)
	recipeHandler.RegisterRoutes(recipeRoutes)

	return &App{
		App:   app,
		Users: userService,
	}
}
