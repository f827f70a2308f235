package services

import (
	"errors"
	"log"
	"strings"

	"github.com/goalforge/goalforge-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateRoadmap persists a roadmap and its steps for a goal in one transaction.
// Ownership and one-roadmap-per-goal are verified inside the transaction; the
// unique index on roadmaps.goal_id settles the race between two concurrent
// creators, and the loser sees ErrConflict. Nothing is written unless every
// step insert succeeds.
//
// Both the manual creation endpoint and the generation pipeline go through
// here; generated steps arrive as candidates with order assigned by position.
func CreateRoadmap(db *gorm.DB, goalID, userID uuid.UUID, title, description string, steps []StepCandidate) (*models.Roadmap, error) {
	var created *models.Roadmap

	err := db.Transaction(func(tx *gorm.DB) error {
		var goal models.Goal
		if err := tx.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var count int64
		if err := tx.Model(&models.Roadmap{}).Where("goal_id = ?", goalID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrConflict
		}

		roadmap := models.Roadmap{
			GoalID:      goalID,
			Title:       title,
			Description: description,
		}
		if err := tx.Create(&roadmap).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrConflict
			}
			return err
		}

		for i, candidate := range steps {
			step := models.RoadmapStep{
				RoadmapID:   roadmap.ID,
				Title:       candidate.Title,
				Description: candidate.Description,
				OrderIndex:  i,
			}
			if err := tx.Create(&step).Error; err != nil {
				return err
			}
			roadmap.Steps = append(roadmap.Steps, step)
		}

		created = &roadmap
		return nil
	})
	if err != nil {
		return nil, err
	}

	created.ComputeProgress()
	return created, nil
}

// FindRoadmap loads a roadmap with ordered steps, walking ownership back to the
// user through the goal. Foreign and absent roadmaps are indistinguishable.
func FindRoadmap(db *gorm.DB, roadmapID, userID uuid.UUID) (*models.Roadmap, error) {
	var roadmap models.Roadmap
	err := db.
		Joins("JOIN goals ON goals.id = roadmaps.goal_id").
		Where("roadmaps.id = ? AND goals.user_id = ?", roadmapID, userID).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&roadmap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	roadmap.ComputeProgress()
	return &roadmap, nil
}

// FindRoadmapByGoal is FindRoadmap keyed by the owning goal instead.
func FindRoadmapByGoal(db *gorm.DB, goalID, userID uuid.UUID) (*models.Roadmap, error) {
	var roadmap models.Roadmap
	err := db.
		Joins("JOIN goals ON goals.id = roadmaps.goal_id").
		Where("roadmaps.goal_id = ? AND goals.user_id = ?", goalID, userID).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index ASC")
		}).
		First(&roadmap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	roadmap.ComputeProgress()
	return &roadmap, nil
}

// FindStep loads a step, walking ownership step -> roadmap -> goal -> user.
func FindStep(db *gorm.DB, stepID, userID uuid.UUID) (*models.RoadmapStep, error) {
	var step models.RoadmapStep
	err := db.
		Joins("JOIN roadmaps ON roadmaps.id = roadmap_steps.roadmap_id").
		Joins("JOIN goals ON goals.id = roadmaps.goal_id").
		Where("roadmap_steps.id = ? AND goals.user_id = ?", stepID, userID).
		First(&step).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &step, nil
}

// ReorderSteps applies a batch of (step id, new order index) assignments to one
// roadmap atomically. Entries naming a step outside the roadmap are skipped,
// matching long-standing behavior; each skip is logged so the silence is at
// least observable.
func ReorderSteps(db *gorm.DB, roadmapID, userID uuid.UUID, entries []models.ReorderStepEntry) error {
	if _, err := FindRoadmap(db, roadmapID, userID); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			result := tx.Model(&models.RoadmapStep{}).
				Where("id = ? AND roadmap_id = ?", entry.ID, roadmapID).
				Update("order_index", entry.OrderIndex)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				log.Printf("reorder: skipping step %s not in roadmap %s", entry.ID, roadmapID)
			}
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// Driver-specific duplicate errors surface differently; the in-tx count
	// catches the common path and this catches the race.
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
