package web

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures the application routes.
func SetupRoutes(app *fiber.App, handlers *Handlers) {
	app.Get("/health", handlers.Health)

	api := app.Group("/api")

	// Caption extraction
	// Example: /api/caption?url=https://instagram.com/p/DJ9b-qWsTMg/
	api.Get("/caption", handlers.Caption)

	// Recipe pipeline and library
	api.Post("/recipes", handlers.CreateRecipe)
	api.Post("/recipes/generate", handlers.GenerateRecipe)
	api.Post("/recipes/reformulate", handlers.ReformulateRecipe)
	api.Get("/recipes", handlers.ListRecipes)
	api.Get("/recipes/:id", handlers.GetRecipe)
	api.Delete("/recipes/:id", handlers.DeleteRecipe)
}
