package config

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"foodgram/internal/api/handlers"
	"foodgram/internal/api/presenters"
	"foodgram/internal/api/routes"
	"foodgram/internal/metrics"
	"foodgram/internal/middleware"
	"foodgram/internal/utils"
	"foodgram/internal/utils/mailing"
	"foodgram/internal/utils/storage"
	"foodgram/pkg/ingredient"
	"foodgram/pkg/jwt"
	"foodgram/pkg/recipe"
	"foodgram/pkg/relation"
	"foodgram/pkg/shopping"
	"foodgram/pkg/tag"
	"foodgram/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators NewApp cannot build from the config alone.
type Deps struct {
	DB      *gorm.DB
	Log     *zap.Logger
	Images  storage.ImageStorage
	Mailer  mailing.Mailer
	Metrics *metrics.Metrics
}

func NewApp(cfg utils.Config, deps Deps) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := presenters.StatusFromError(err)
			if code >= fiber.StatusInternalServerError {
				deps.Log.Error("unhandled error", zap.String("path", c.Path()), zap.Error(err))
			}
			return presenters.ErrorResponse(c, code, http.StatusText(code), err)
		},
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	output, err := accessLogOutput(cfg.AccessLogPath)
	if err != nil {
		return nil, err
	}
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     output,
	}))

	if cfg.RateLimitPerSecond > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimitPerSecond,
			Expiration: 1 * time.Second,
		}))
	}

	// Repository
	userRepository := user.NewUserRepository(deps.DB)
	recipeRepository := recipe.NewRecipeRepository(deps.DB)
	relationRepository := relation.NewRelationRepository(deps.DB)
	shoppingRepository := shopping.NewShoppingRepository(deps.DB)
	tagRepository := tag.NewTagRepository(deps.DB)
	ingredientRepository := ingredient.NewIngredientRepository(deps.DB)

	// Service
	jwtService := jwt.NewJWTService(cfg.JWTSecret, time.Duration(cfg.JWTTTLMinutes)*time.Minute)
	relationGuard := relation.NewRelationGuard(relationRepository, deps.Metrics, deps.Log.Named("relation"))
	userService := user.NewUserService(
		userRepository,
		recipeRepository,
		relationRepository,
		relationGuard,
		jwtService,
		deps.Mailer,
		cfg.AppURL,
		deps.Log.Named("user"),
	)
	recipeService := recipe.NewRecipeService(
		recipeRepository,
		relationRepository,
		relationGuard,
		recipe.NewRecipeComposer(),
		deps.Images,
		deps.Metrics,
		deps.Log.Named("recipe"),
	)
	shoppingService := shopping.NewShoppingService(shoppingRepository, deps.Metrics, deps.Log.Named("shopping"))
	tagService := tag.NewTagService(tagRepository)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator, cfg.PageSize)
	recipeHandler := handlers.NewRecipeHandler(recipeService, shoppingService, validator, cfg.PageSize)
	catalogHandler := handlers.NewCatalogHandler(tagService, ingredientService)

	// routes
	routesConfig := routes.Config{
		App:            app,
		UserHandler:    userHandler,
		RecipeHandler:  recipeHandler,
		CatalogHandler: catalogHandler,
		Middleware:     middlewares,
		JWTService:     jwtService,
		Metrics:        deps.Metrics,
	}
	routesConfig.Setup()
	return app, nil
}

// accessLogOutput writes to stdout and, when path is set, to that file too.
func accessLogOutput(path string) (io.Writer, error) {
	if path == "" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	return io.MultiWriter(os.Stdout, file), nil
}
