package services

import (
	"encoding/json"
	"fmt"
)

// StepCandidate is one decoded step before it is attached to a roadmap. It only
// lives for the duration of a generation request.
type StepCandidate struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

const maxStepTitleLength = 200

// DecodeSteps parses normalized completion text into an ordered candidate list.
// The contract is all-or-nothing: a single invalid element fails the whole
// batch with ErrMalformedResponse. The field rules match manual step creation,
// so a generated step is held to the same bar as a hand-written one.
func DecodeSteps(text string) ([]StepCandidate, error) {
	var probe json.RawMessage
	if err := json.Unmarshal([]byte(text), &probe); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", ErrMalformedResponse, err)
	}

	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(probe, &raw); err != nil {
		return nil, fmt.Errorf("%w: top-level value must be an array of objects", ErrMalformedResponse)
	}

	steps := make([]StepCandidate, 0, len(raw))
	for i, obj := range raw {
		var step StepCandidate

		titleRaw, ok := obj["title"]
		if !ok {
			return nil, fmt.Errorf("%w: step %d is missing \"title\"", ErrMalformedResponse, i)
		}
		if err := json.Unmarshal(titleRaw, &step.Title); err != nil {
			return nil, fmt.Errorf("%w: step %d has a non-string \"title\"", ErrMalformedResponse, i)
		}

		descRaw, ok := obj["description"]
		if !ok {
			return nil, fmt.Errorf("%w: step %d is missing \"description\"", ErrMalformedResponse, i)
		}
		if err := json.Unmarshal(descRaw, &step.Description); err != nil {
			return nil, fmt.Errorf("%w: step %d has a non-string \"description\"", ErrMalformedResponse, i)
		}

		if step.Title == "" {
			return nil, fmt.Errorf("%w: step %d has an empty title", ErrMalformedResponse, i)
		}
		if len(step.Title) > maxStepTitleLength {
			return nil, fmt.Errorf("%w: step %d title exceeds %d characters", ErrMalformedResponse, i, maxStepTitleLength)
		}

		steps = append(steps, step)
	}

	return steps, nil
}
