package routes

import (
	"foodgram/internal/api/handlers"
	"foodgram/internal/metrics"
	"foodgram/internal/middleware"
	"foodgram/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	App            *fiber.App
	UserHandler    handlers.UserHandler
	RecipeHandler  handlers.RecipeHandler
	CatalogHandler handlers.CatalogHandler
	Middleware     middleware.Middleware
	JWTService     jwt.JWTService
	Metrics        *metrics.Metrics
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Auth()
	c.User()
	c.Catalog()
	c.Recipes()
	c.GuestRoute()
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth/token")
	{
		auth.Post("/login", c.UserHandler.Login)
		auth.Post("/logout", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Logout)
	}
}

func (c *Config) User() {
	required := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	user := c.App.Group("/api/users")
	// user routes
	{
		user.Post("/", c.UserHandler.Register)
		user.Get("/", optional, c.UserHandler.GetUsers)
		user.Get("/me", required, c.UserHandler.Me)
		user.Post("/set_password", required, c.UserHandler.SetPassword)
		user.Get("/subscriptions", required, c.UserHandler.GetSubscriptions)
		user.Get("/:id<int>", optional, c.UserHandler.GetUser)
		user.Post("/:id<int>/subscribe", required, c.UserHandler.Subscribe)
		user.Delete("/:id<int>/subscribe", required, c.UserHandler.Unsubscribe)
	}
}

func (c *Config) Catalog() {
	tags := c.App.Group("/api/tags")
	tags.Get("/", c.CatalogHandler.GetTags)
	tags.Get("/:id<int>", c.CatalogHandler.GetTag)

	ingredients := c.App.Group("/api/ingredients")
	ingredients.Get("/", c.CatalogHandler.GetIngredients)
	ingredients.Get("/:id<int>", c.CatalogHandler.GetIngredient)
}

func (c *Config) Recipes() {
	required := c.Middleware.AuthMiddleware(c.JWTService)
	optional := c.Middleware.OptionalAuthMiddleware(c.JWTService)

	recipes := c.App.Group("/api/recipes")
	recipes.Get("/download_shopping_cart", required, c.RecipeHandler.DownloadShoppingCart)

	// Basic CRUD operations
	recipes.Get("/", optional, c.RecipeHandler.GetRecipes)
	recipes.Post("/", required, c.RecipeHandler.CreateRecipe)
	recipes.Get("/:id<int>", optional, c.RecipeHandler.GetRecipeDetail)
	recipes.Patch("/:id<int>", required, c.RecipeHandler.UpdateRecipe)
	recipes.Delete("/:id<int>", required, c.RecipeHandler.DeleteRecipe)

	// Relations
	recipes.Post("/:id<int>/favorite", required, c.RecipeHandler.AddFavorite)
	recipes.Delete("/:id<int>/favorite", required, c.RecipeHandler.RemoveFavorite)
	recipes.Post("/:id<int>/shopping_cart", required, c.RecipeHandler.AddToShoppingCart)
	recipes.Delete("/:id<int>/shopping_cart", required, c.RecipeHandler.RemoveFromShoppingCart)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(c.Metrics.Registry, promhttp.HandlerOpts{})))
}
