package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GoalStatus is the closed set of lifecycle states a goal can be in.
type GoalStatus string

const (
	StatusInProgress GoalStatus = "in-progress"
	StatusOnTrack    GoalStatus = "on-track"
	StatusCompleted  GoalStatus = "completed"
	StatusOverdue    GoalStatus = "overdue"
	StatusPaused     GoalStatus = "paused"
)

func (s GoalStatus) Valid() bool {
	switch s {
	case StatusInProgress, StatusOnTrack, StatusCompleted, StatusOverdue, StatusPaused:
		return true
	}
	return false
}

type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

func (p GoalPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

type Goal struct {
	ID          uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	UserID      uuid.UUID      `json:"userId" gorm:"type:uuid;index;not null"`
	Title       string         `json:"title" gorm:"not null;index"`
	Description string         `json:"description"`
	Category    string         `json:"category" gorm:"not null;index"`
	Status      GoalStatus     `json:"status" gorm:"type:varchar(20);default:'in-progress'"`
	Priority    GoalPriority   `json:"priority" gorm:"type:varchar(10);default:'medium'"`
	Deadline    *string        `json:"deadline" gorm:"type:varchar(10)"` // ISO date, YYYY-MM-DD
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	Roadmap     *Roadmap       `json:"roadmap,omitempty" gorm:"foreignKey:GoalID"`
}

func (g *Goal) BeforeCreate(tx *gorm.DB) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return nil
}

// Goal DTOs
type CreateGoalRequest struct {
	Title       string       `json:"title" validate:"required"`
	Description string       `json:"description"`
	Category    string       `json:"category" validate:"required"`
	Priority    GoalPriority `json:"priority"`
	Deadline    *string      `json:"deadline"`
}

type UpdateGoalRequest struct {
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	Category    *string       `json:"category"`
	Status      *GoalStatus   `json:"status"`
	Priority    *GoalPriority `json:"priority"`
	Deadline    *string       `json:"deadline"`
}

type GoalStats struct {
	Total      int64 `json:"total"`
	InProgress int64 `json:"inProgress"`
	OnTrack    int64 `json:"onTrack"`
	Completed  int64 `json:"completed"`
	Overdue    int64 `json:"overdue"`
	Paused     int64 `json:"paused"`
}
