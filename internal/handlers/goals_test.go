package handlers_test

import (
	"encoding/json"
	"testing"

	"github.com/goalforge/goalforge-api/internal/database"
	"github.com/goalforge/goalforge-api/internal/models"
	"github.com/goalforge/goalforge-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

func TestCreateGoalValidation(t *testing.T) {
	app := newTestApp(t)
	_, token := seedAuthedUser(t, false)

	resp, _ := doJSON(t, app, "POST", "/api/goals/", token,
		models.CreateGoalRequest{Category: "fitness"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("missing title status = %d, want 400", resp.StatusCode)
	}

	resp, _ = doJSON(t, app, "POST", "/api/goals/", token,
		models.CreateGoalRequest{Title: "Run", Category: "fitness", Priority: "extreme"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("bad priority status = %d, want 400", resp.StatusCode)
	}

	resp, raw := doJSON(t, app, "POST", "/api/goals/", token,
		models.CreateGoalRequest{Title: "Run", Category: "fitness"})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d: %s", resp.StatusCode, raw)
	}
	var goal models.Goal
	json.Unmarshal(raw, &goal)
	if goal.Priority != models.PriorityMedium || goal.Status != models.StatusInProgress {
		t.Errorf("defaults not applied: priority %q, status %q", goal.Priority, goal.Status)
	}
}

func TestGoalsAreScopedToUser(t *testing.T) {
	app := newTestApp(t)
	owner, ownerToken := seedAuthedUser(t, false)
	goal := seedGoal(t, owner)
	_, intruderToken := seedAuthedUser(t, false)

	resp, _ := doJSON(t, app, "GET", "/api/goals/"+goal.ID.String(), intruderToken, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("intruder GET status = %d, want 404", resp.StatusCode)
	}
	resp, _ = doJSON(t, app, "DELETE", "/api/goals/"+goal.ID.String(), intruderToken, nil)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("intruder DELETE status = %d, want 404", resp.StatusCode)
	}

	_, raw := doJSON(t, app, "GET", "/api/goals/", intruderToken, nil)
	var listing struct {
		Total int64 `json:"total"`
	}
	json.Unmarshal(raw, &listing)
	if listing.Total != 0 {
		t.Errorf("intruder sees %d goals, want 0", listing.Total)
	}

	resp, _ = doJSON(t, app, "GET", "/api/goals/"+goal.ID.String(), ownerToken, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("owner GET status = %d, want 200", resp.StatusCode)
	}
}

func TestUpdateGoalStatusRejectsUnknownValue(t *testing.T) {
	app := newTestApp(t)
	user, token := seedAuthedUser(t, false)
	goal := seedGoal(t, user)

	resp, _ := doJSON(t, app, "PATCH", "/api/goals/"+goal.ID.String()+"/status", token,
		map[string]string{"status": "archived"})
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	resp, raw := doJSON(t, app, "PATCH", "/api/goals/"+goal.ID.String()+"/status", token,
		map[string]string{"status": "completed"})
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, raw)
	}
	var updated models.Goal
	json.Unmarshal(raw, &updated)
	if updated.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", updated.Status)
	}
}

func TestDeleteGoalCascadesToRoadmap(t *testing.T) {
	app := newTestApp(t)
	user, token := seedAuthedUser(t, false)
	goal := seedGoal(t, user)

	roadmap, err := services.CreateRoadmap(database.DB, goal.ID, user.ID, "Plan", "",
		[]services.StepCandidate{{Title: "a"}, {Title: "b"}})
	if err != nil {
		t.Fatalf("CreateRoadmap: %v", err)
	}

	resp, _ := doJSON(t, app, "DELETE", "/api/goals/"+goal.ID.String(), token, nil)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	var roadmaps, steps int64
	database.DB.Model(&models.Roadmap{}).Where("id = ?", roadmap.ID).Count(&roadmaps)
	database.DB.Model(&models.RoadmapStep{}).Where("roadmap_id = ?", roadmap.ID).Count(&steps)
	if roadmaps != 0 || steps != 0 {
		t.Errorf("after goal delete: %d roadmaps, %d steps left, want none", roadmaps, steps)
	}
}

func TestGoalStats(t *testing.T) {
	app := newTestApp(t)
	user, token := seedAuthedUser(t, false)

	for _, status := range []models.GoalStatus{
		models.StatusInProgress, models.StatusInProgress, models.StatusCompleted,
	} {
		goal := seedGoal(t, user)
		database.DB.Model(goal).Update("status", status)
	}

	_, raw := doJSON(t, app, "GET", "/api/goals/stats", token, nil)
	var stats models.GoalStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.Total != 3 || stats.InProgress != 2 || stats.Completed != 1 {
		t.Errorf("stats = %+v, want total 3, inProgress 2, completed 1", stats)
	}
}
