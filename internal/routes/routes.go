package routes

import (
	"github.com/goalforge/goalforge-api/internal/handlers"
	"github.com/goalforge/goalforge-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func Setup(app *fiber.App) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.Register)
	auth.Post("/login", handlers.Login)

	protected := api.Group("/", middleware.Protected())

	protected.Get("/me", handlers.GetMe)
	protected.Put("/me/api-key", handlers.UpdateAPIKey)
	protected.Delete("/me/api-key", handlers.DeleteAPIKey)
	protected.Get("/me/api-key", handlers.GetAPIKeyStatus)

	goals := protected.Group("/goals")
	goals.Post("/", handlers.CreateGoal)
	goals.Get("/", handlers.GetGoals)
	goals.Get("/stats", handlers.GetGoalStats)
	goals.Get("/:id", handlers.GetGoal)
	goals.Put("/:id", handlers.UpdateGoal)
	goals.Patch("/:id/status", handlers.UpdateGoalStatus)
	goals.Delete("/:id", handlers.DeleteGoal)

	roadmaps := protected.Group("/roadmaps")
	roadmaps.Post("/generate/:goalId", handlers.GenerateRoadmap)
	roadmaps.Post("/goal/:goalId", handlers.CreateRoadmap)
	roadmaps.Get("/goal/:goalId", handlers.GetRoadmapByGoal)

	// Step routes before /:id so "steps" is not parsed as a roadmap ID.
	roadmaps.Get("/steps/:stepId", handlers.GetStep)
	roadmaps.Put("/steps/:stepId", handlers.UpdateStep)
	roadmaps.Patch("/steps/:stepId/toggle", handlers.ToggleStep)
	roadmaps.Delete("/steps/:stepId", handlers.DeleteStep)

	roadmaps.Get("/:id", handlers.GetRoadmap)
	roadmaps.Put("/:id", handlers.UpdateRoadmap)
	roadmaps.Delete("/:id", handlers.DeleteRoadmap)
	roadmaps.Post("/:id/steps", handlers.CreateStep)
	roadmaps.Get("/:id/steps", handlers.GetSteps)
	roadmaps.Patch("/:id/steps/reorder", handlers.ReorderSteps)

	// File upload
	protected.Post("/upload", handlers.UploadImage)
}
