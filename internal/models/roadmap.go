package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roadmap is the ordered step plan attached 1:1 to a goal. The unique index on
// GoalID backs the one-roadmap-per-goal invariant under concurrent creates, so
// roadmaps and steps are deleted for real rather than soft-deleted: a
// tombstoned row would keep occupying the index and block recreation.
type Roadmap struct {
	ID                 uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	GoalID             uuid.UUID     `json:"goalId" gorm:"type:uuid;uniqueIndex;not null"`
	Title              string        `json:"title" gorm:"not null"`
	Description        string        `json:"description"`
	ProgressPercentage float64       `json:"progressPercentage" gorm:"-"`
	Steps              []RoadmapStep `json:"steps" gorm:"foreignKey:RoadmapID"`
	CreatedAt          time.Time     `json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

func (r *Roadmap) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Progress returns the completed-step share as a percentage, 0 for an empty roadmap.
func (r *Roadmap) Progress() float64 {
	if len(r.Steps) == 0 {
		return 0
	}
	completed := 0
	for _, s := range r.Steps {
		if s.IsCompleted {
			completed++
		}
	}
	return float64(completed) / float64(len(r.Steps)) * 100
}

// ComputeProgress fills the derived ProgressPercentage field before the roadmap
// is serialized.
func (r *Roadmap) ComputeProgress() {
	r.ProgressPercentage = r.Progress()
}

type RoadmapStep struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	RoadmapID   uuid.UUID `json:"roadmapId" gorm:"type:uuid;index;not null"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted" gorm:"default:false"`
	OrderIndex  int       `json:"orderIndex" gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (s *RoadmapStep) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Roadmap DTOs
type CreateStepRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	IsCompleted bool   `json:"isCompleted"`
	OrderIndex  *int   `json:"orderIndex"`
}

type CreateRoadmapRequest struct {
	Title       string              `json:"title" validate:"required,max=200"`
	Description string              `json:"description"`
	Steps       []CreateStepRequest `json:"steps"`
}

type UpdateRoadmapRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type UpdateStepRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsCompleted *bool   `json:"isCompleted"`
	OrderIndex  *int    `json:"orderIndex"`
}

type ReorderStepEntry struct {
	ID         uuid.UUID `json:"id"`
	OrderIndex int       `json:"orderIndex"`
}
