package services

import (
	"errors"
	"strings"
	"testing"
)

func TestDecodeSteps_ValidList(t *testing.T) {
	text := `[
		{"title": "Research", "description": "Read **widely**."},
		{"title": "Practice", "description": "Daily drills.\n\nTrack results."}
	]`
	steps, err := DecodeSteps(text)
	if err != nil {
		t.Fatalf("DecodeSteps: %v", err)
	}
	if len(steps) != 2 {
		t.Fatalf("len(steps) = %d, want 2", len(steps))
	}
	if steps[0].Title != "Research" || steps[1].Title != "Practice" {
		t.Errorf("titles = %q, %q; list order not preserved", steps[0].Title, steps[1].Title)
	}
	if steps[1].Description != "Daily drills.\n\nTrack results." {
		t.Errorf("description = %q; markdown content not preserved", steps[1].Description)
	}
}

func TestDecodeSteps_RejectsNonListTopLevel(t *testing.T) {
	for _, text := range []string{
		`{"title": "x", "description": "y"}`,
		`"just a string"`,
		`42`,
	} {
		if _, err := DecodeSteps(text); !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("DecodeSteps(%q) error = %v, want ErrMalformedResponse", text, err)
		}
	}
}

func TestDecodeSteps_RejectsInvalidJSON(t *testing.T) {
	if _, err := DecodeSteps("not json at all"); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse", err)
	}
}

func TestDecodeSteps_MissingFieldFailsWholeBatch(t *testing.T) {
	text := `[
		{"title": "ok", "description": "fine"},
		{"description": "no title here"}
	]`
	steps, err := DecodeSteps(text)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("error = %v, want ErrMalformedResponse", err)
	}
	if steps != nil {
		t.Errorf("steps = %v, want nil on batch failure", steps)
	}

	text = `[{"title": "no description"}]`
	if _, err := DecodeSteps(text); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse for missing description", err)
	}
}

func TestDecodeSteps_RejectsNonStringFields(t *testing.T) {
	text := `[{"title": 7, "description": "x"}]`
	if _, err := DecodeSteps(text); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("error = %v, want ErrMalformedResponse for numeric title", err)
	}
}

func TestDecodeSteps_RejectsEmptyAndOversizedTitles(t *testing.T) {
	if _, err := DecodeSteps(`[{"title": "", "description": "x"}]`); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("empty title: error = %v, want ErrMalformedResponse", err)
	}

	long := strings.Repeat("a", maxStepTitleLength+1)
	if _, err := DecodeSteps(`[{"title": "` + long + `", "description": "x"}]`); !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("oversized title: error = %v, want ErrMalformedResponse", err)
	}
}

func TestDecodeSteps_EmptyListIsValid(t *testing.T) {
	steps, err := DecodeSteps("[]")
	if err != nil {
		t.Fatalf("DecodeSteps: %v", err)
	}
	if len(steps) != 0 {
		t.Errorf("len(steps) = %d, want 0", len(steps))
	}
}
