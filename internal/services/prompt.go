package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/goalforge/goalforge-api/internal/models"
)

// BuildRoadmapPrompt assembles the instruction sent to the generation service.
// The output is fully determined by the goal's attributes and the given date;
// the date is the only input that varies between otherwise identical calls.
func BuildRoadmapPrompt(goal *models.Goal, today time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a step-by-step roadmap for the following goal.\n\n")
	fmt.Fprintf(&b, "Goal: %s\n", goal.Title)
	if goal.Description != "" {
		fmt.Fprintf(&b, "Details: %s\n", goal.Description)
	}
	fmt.Fprintf(&b, "Category: %s\n", goal.Category)
	fmt.Fprintf(&b, "Priority: %s\n", goal.Priority)
	fmt.Fprintf(&b, "Today's date: %s\n", today.Format("2006-01-02"))
	if goal.Deadline != nil && *goal.Deadline != "" {
		fmt.Fprintf(&b, "Deadline: %s\n", *goal.Deadline)
		b.WriteString("Distribute the steps realistically across the time between today and the deadline.\n")
	}

	b.WriteString(`
Respond with ONLY a JSON array of step objects, no other text. Each object must
have exactly two fields: "title" and "description". The steps must be logically
ordered and progressive, each building on the previous ones. Descriptions may
use **bold**, *italic*, and blank lines between paragraphs, but no other
markdown. Example:

[{"title": "First step", "description": "What to do and why."}]
`)

	return b.String()
}
