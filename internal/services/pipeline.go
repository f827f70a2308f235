package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goalforge/goalforge-api/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerateRoadmap runs the full pipeline for a goal: build the prompt, call the
// generation service with the user's key, normalize and decode the completion,
// and persist the result transactionally. Any stage failing aborts the request
// with nothing written; persistence happens strictly after a successful decode.
func GenerateRoadmap(ctx context.Context, db *gorm.DB, cipher *KeyCipher, completer Completer, goalID, userID uuid.UUID) (*models.Roadmap, error) {
	var goal models.Goal
	if err := db.Where("id = ? AND user_id = ?", goalID, userID).First(&goal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Cheap early rejection so a doomed request never pays for a completion.
	// The create transaction re-checks under isolation either way.
	var count int64
	if err := db.Model(&models.Roadmap{}).Where("goal_id = ?", goalID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrConflict
	}

	apiKey, err := ResolveUserAPIKey(db, userID, cipher)
	if err != nil {
		return nil, err
	}

	prompt := BuildRoadmapPrompt(&goal, time.Now())

	raw, err := completer.Complete(ctx, prompt, apiKey)
	if err != nil {
		return nil, err
	}

	steps, err := DecodeSteps(NormalizeResponse(raw))
	if err != nil {
		return nil, err
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: completion contained no steps", ErrMalformedResponse)
	}

	title := "Roadmap: " + goal.Title
	description := "Step-by-step plan for \"" + goal.Title + "\""

	return CreateRoadmap(db, goalID, userID, title, description, steps)
}
