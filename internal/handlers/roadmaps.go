package handlers

import (
	"errors"

	"github.com/goalforge/goalforge-api/internal/database"
	"github.com/goalforge/goalforge-api/internal/middleware"
	"github.com/goalforge/goalforge-api/internal/models"
	"github.com/goalforge/goalforge-api/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Generator produces completions for the roadmap pipeline. Set once at startup.
var Generator services.Completer

// GenerateRoadmap runs the generation pipeline for a goal and returns the
// persisted roadmap. Status mapping: absent/foreign goal 404, conflict or
// undecodable completion 400, missing key or upstream failure 500.
func GenerateRoadmap(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("goalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	roadmap, err := services.GenerateRoadmap(c.Context(), database.DB, Cipher, Generator, goalID, userID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Goal not found",
			})
		case errors.Is(err, services.ErrConflict):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Roadmap already exists for this goal",
			})
		case errors.Is(err, services.ErrMalformedResponse):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Generated response could not be parsed into steps",
			})
		case errors.Is(err, services.ErrMissingAPIKey):
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "No generation API key configured for this account",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Generation service request failed",
			})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(roadmap)
}

// CreateRoadmap is the manual creation path: caller-supplied steps through the
// same transactional pipeline tail as generation. All failures answer 400 here.
func CreateRoadmap(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("goalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var req models.CreateRoadmapRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title == "" || len(req.Title) > 200 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required and must be at most 200 characters",
		})
	}

	candidates := make([]services.StepCandidate, 0, len(req.Steps))
	for _, s := range req.Steps {
		if s.Title == "" || len(s.Title) > 200 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Every step needs a title of at most 200 characters",
			})
		}
		candidates = append(candidates, services.StepCandidate{
			Title:       s.Title,
			Description: s.Description,
		})
	}

	roadmap, err := services.CreateRoadmap(database.DB, goalID, userID, req.Title, req.Description, candidates)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrConflict) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Goal not found, roadmap already exists, or access denied",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create roadmap",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(roadmap)
}

func GetRoadmapByGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("goalId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	roadmap, err := services.FindRoadmapByGoal(database.DB, goalID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Roadmap not found",
		})
	}

	return c.JSON(roadmap)
}

func GetRoadmap(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	roadmapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid roadmap ID",
		})
	}

	roadmap, err := services.FindRoadmap(database.DB, roadmapID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Roadmap not found",
		})
	}

	return c.JSON(roadmap)
}

func UpdateRoadmap(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	roadmapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid roadmap ID",
		})
	}

	roadmap, err := services.FindRoadmap(database.DB, roadmapID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Roadmap not found",
		})
	}

	var req models.UpdateRoadmapRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		if *req.Title == "" || len(*req.Title) > 200 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Title must be between 1 and 200 characters",
			})
		}
		roadmap.Title = *req.Title
	}
	if req.Description != nil {
		roadmap.Description = *req.Description
	}

	if err := database.DB.Save(roadmap).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update roadmap",
		})
	}

	roadmap.ComputeProgress()
	return c.JSON(roadmap)
}

func DeleteRoadmap(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	roadmapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid roadmap ID",
		})
	}

	roadmap, err := services.FindRoadmap(database.DB, roadmapID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Roadmap not found",
		})
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("roadmap_id = ?", roadmap.ID).Delete(&models.RoadmapStep{}).Error; err != nil {
			return err
		}
		return tx.Delete(roadmap).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete roadmap",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Roadmap deleted",
	})
}

// CreateStep appends a step to a roadmap. Without an explicit order index the
// step lands at the end.
func CreateStep(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	roadmapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid roadmap ID",
		})
	}

	roadmap, err := services.FindRoadmap(database.DB, roadmapID, userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Roadmap not found or access denied",
		})
	}

	var req models.CreateStepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title == "" || len(req.Title) > 200 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required and must be at most 200 characters",
		})
	}

	orderIndex := len(roadmap.Steps)
	if req.OrderIndex != nil {
		if *req.OrderIndex < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Order index must not be negative",
			})
		}
		orderIndex = *req.OrderIndex
	}

	step := models.RoadmapStep{
		RoadmapID:   roadmap.ID,
		Title:       req.Title,
		Description: req.Description,
		IsCompleted: req.IsCompleted,
		OrderIndex:  orderIndex,
	}

	if err := database.DB.Create(&step).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create step",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(step)
}

func GetSteps(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	roadmapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid roadmap ID",
		})
	}

	roadmap, err := services.FindRoadmap(database.DB, roadmapID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Roadmap not found",
		})
	}

	return c.JSON(roadmap.Steps)
}

func GetStep(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	stepID, err := uuid.Parse(c.Params("stepId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid step ID",
		})
	}

	step, err := services.FindStep(database.DB, stepID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Step not found",
		})
	}

	return c.JSON(step)
}

func UpdateStep(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	stepID, err := uuid.Parse(c.Params("stepId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid step ID",
		})
	}

	step, err := services.FindStep(database.DB, stepID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Step not found",
		})
	}

	var req models.UpdateStepRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		if *req.Title == "" || len(*req.Title) > 200 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Title must be between 1 and 200 characters",
			})
		}
		step.Title = *req.Title
	}
	if req.Description != nil {
		step.Description = *req.Description
	}
	if req.IsCompleted != nil {
		step.IsCompleted = *req.IsCompleted
	}
	if req.OrderIndex != nil {
		if *req.OrderIndex < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Order index must not be negative",
			})
		}
		step.OrderIndex = *req.OrderIndex
	}

	if err := database.DB.Save(step).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update step",
		})
	}

	return c.JSON(step)
}

// ToggleStep flips the completion flag; toggling twice restores the original state.
func ToggleStep(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	stepID, err := uuid.Parse(c.Params("stepId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid step ID",
		})
	}

	step, err := services.FindStep(database.DB, stepID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Step not found",
		})
	}

	step.IsCompleted = !step.IsCompleted
	if err := database.DB.Save(step).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to toggle step",
		})
	}

	return c.JSON(step)
}

func DeleteStep(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	stepID, err := uuid.Parse(c.Params("stepId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid step ID",
		})
	}

	step, err := services.FindStep(database.DB, stepID, userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Step not found",
		})
	}

	if err := database.DB.Delete(step).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete step",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Step deleted",
	})
}

// ReorderSteps applies a batch of order assignments atomically. Entries naming
// steps outside this roadmap are skipped.
func ReorderSteps(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)
	roadmapID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid roadmap ID",
		})
	}

	var entries []models.ReorderStepEntry
	if err := c.BodyParser(&entries); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	for _, entry := range entries {
		if entry.OrderIndex < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Order index must not be negative",
			})
		}
	}

	if err := services.ReorderSteps(database.DB, roadmapID, userID, entries); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Failed to reorder steps or roadmap not found",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Steps reordered",
	})
}
