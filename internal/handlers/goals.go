package handlers

import (
	"errors"
	"strconv"

	"github.com/goalforge/goalforge-api/internal/database"
	"github.com/goalforge/goalforge-api/internal/middleware"
	"github.com/goalforge/goalforge-api/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func CreateGoal(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var req models.CreateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title is required",
		})
	}
	if req.Category == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Category is required",
		})
	}

	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Priority must be low, medium or high",
		})
	}

	goal := models.Goal{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Status:      models.StatusInProgress,
		Priority:    priority,
		Deadline:    req.Deadline,
	}

	if err := database.DB.Create(&goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create goal",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(goal)
}

func GetGoals(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.Query("pageSize", "10"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	query := database.DB.Model(&models.Goal{}).Where("user_id = ?", userID)

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if priority := c.Query("priority"); priority != "" {
		query = query.Where("priority = ?", priority)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch goals",
		})
	}

	var goals []models.Goal
	if err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&goals).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch goals",
		})
	}

	return c.JSON(fiber.Map{
		"data":     goals,
		"total":    total,
		"page":     page,
		"pageSize": pageSize,
	})
}

func GetGoalStats(c *fiber.Ctx) error {
	userID := middleware.GetUserID(c)

	var stats models.GoalStats
	counts := map[models.GoalStatus]*int64{
		models.StatusInProgress: &stats.InProgress,
		models.StatusOnTrack:    &stats.OnTrack,
		models.StatusCompleted:  &stats.Completed,
		models.StatusOverdue:    &stats.Overdue,
		models.StatusPaused:     &stats.Paused,
	}

	if err := database.DB.Model(&models.Goal{}).Where("user_id = ?", userID).
		Count(&stats.Total).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch stats",
		})
	}

	for status, dst := range counts {
		if err := database.DB.Model(&models.Goal{}).
			Where("user_id = ? AND status = ?", userID, status).
			Count(dst).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch stats",
			})
		}
	}

	return c.JSON(stats)
}

// findOwnedGoal resolves a goal for the acting user. Absent and foreign goals
// answer identically so responses never reveal other users' data.
func findOwnedGoal(c *fiber.Ctx) (*models.Goal, error) {
	userID := middleware.GetUserID(c)
	goalID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid goal ID",
		})
	}

	var goal models.Goal
	if err := database.DB.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Goal not found",
		})
	}

	return &goal, nil
}

func GetGoal(c *fiber.Ctx) error {
	goal, fiberErr := findOwnedGoal(c)
	if goal == nil {
		return fiberErr
	}
	return c.JSON(goal)
}

func UpdateGoal(c *fiber.Ctx) error {
	goal, fiberErr := findOwnedGoal(c)
	if goal == nil {
		return fiberErr
	}

	var req models.UpdateGoalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Title != nil {
		if *req.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Title cannot be empty",
			})
		}
		goal.Title = *req.Title
	}
	if req.Description != nil {
		goal.Description = *req.Description
	}
	if req.Category != nil {
		goal.Category = *req.Category
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid status",
			})
		}
		goal.Status = *req.Status
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid priority",
			})
		}
		goal.Priority = *req.Priority
	}
	if req.Deadline != nil {
		goal.Deadline = req.Deadline
	}

	if err := database.DB.Save(goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update goal",
		})
	}

	return c.JSON(goal)
}

func UpdateGoalStatus(c *fiber.Ctx) error {
	goal, fiberErr := findOwnedGoal(c)
	if goal == nil {
		return fiberErr
	}

	var req struct {
		Status models.GoalStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !req.Status.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid status",
		})
	}

	goal.Status = req.Status
	if err := database.DB.Save(goal).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update goal",
		})
	}

	return c.JSON(goal)
}

// DeleteGoal removes a goal together with its roadmap and steps.
func DeleteGoal(c *fiber.Ctx) error {
	goal, fiberErr := findOwnedGoal(c)
	if goal == nil {
		return fiberErr
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var roadmap models.Roadmap
		err := tx.Where("goal_id = ?", goal.ID).First(&roadmap).Error
		if err == nil {
			if err := tx.Where("roadmap_id = ?", roadmap.ID).Delete(&models.RoadmapStep{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&roadmap).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		return tx.Delete(goal).Error
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete goal",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Goal deleted",
	})
}
