package services

import (
	"context"
	"errors"
	"testing"

	"github.com/goalforge/goalforge-api/internal/models"
	"gorm.io/gorm"
)

type fakeCompleter struct {
	response string
	err      error
	calls    int
	gotKey   string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt, apiKey string) (string, error) {
	f.calls++
	f.gotKey = apiKey
	return f.response, f.err
}

func seedAPIKey(t *testing.T, db *gorm.DB, cipher *KeyCipher, user *models.User, key string) {
	t.Helper()
	encrypted, err := cipher.Encrypt(key)
	if err != nil {
		t.Fatalf("encrypt key: %v", err)
	}
	if err := db.Model(user).Update("encrypted_api_key", encrypted).Error; err != nil {
		t.Fatalf("store key: %v", err)
	}
}

func TestGenerateRoadmap_FullPipeline(t *testing.T) {
	db := newTestDB(t)
	user, goal := seedUserAndGoal(t, db)
	cipher, _ := NewKeyCipher("test")
	seedAPIKey(t, db, cipher, user, "sk-test")

	completer := &fakeCompleter{
		response: "```json\n[{\"title\": \"Step one\", \"description\": \"Start.\"}," +
			"{\"title\": \"Step two\", \"description\": \"Continue.\"}]\n```",
	}

	roadmap, err := GenerateRoadmap(context.Background(), db, cipher, completer, goal.ID, user.ID)
	if err != nil {
		t.Fatalf("GenerateRoadmap: %v", err)
	}

	if completer.gotKey != "sk-test" {
		t.Errorf("completer got key %q, want decrypted user key", completer.gotKey)
	}
	if completer.calls != 1 {
		t.Errorf("completer called %d times, want exactly 1 (no retries)", completer.calls)
	}
	if len(roadmap.Steps) != 2 {
		t.Fatalf("len(steps) = %d, want 2", len(roadmap.Steps))
	}
	if roadmap.Steps[0].OrderIndex != 0 || roadmap.Steps[1].OrderIndex != 1 {
		t.Errorf("order indexes = %d, %d; want 0, 1", roadmap.Steps[0].OrderIndex, roadmap.Steps[1].OrderIndex)
	}
	if roadmap.ProgressPercentage != 0 {
		t.Errorf("ProgressPercentage = %v, want 0 for fresh roadmap", roadmap.ProgressPercentage)
	}
}

func TestGenerateRoadmap_NoAPIKey(t *testing.T) {
	db := newTestDB(t)
	user, goal := seedUserAndGoal(t, db)
	cipher, _ := NewKeyCipher("test")
	completer := &fakeCompleter{response: "[]"}

	_, err := GenerateRoadmap(context.Background(), db, cipher, completer, goal.ID, user.ID)
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("error = %v, want ErrMissingAPIKey", err)
	}
	if completer.calls != 0 {
		t.Error("upstream was called without a credential")
	}
}

func TestResolveUserAPIKey_StorageFailureIsNotMissingKey(t *testing.T) {
	db := newTestDB(t)
	user, _ := seedUserAndGoal(t, db)
	cipher, _ := NewKeyCipher("test")

	if _, err := ResolveUserAPIKey(db, user.ID, cipher); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("error without a stored key = %v, want ErrMissingAPIKey", err)
	}

	if err := db.Exec("DROP TABLE users").Error; err != nil {
		t.Fatalf("drop users: %v", err)
	}
	_, err := ResolveUserAPIKey(db, user.ID, cipher)
	if err == nil {
		t.Fatal("expected an error when the user lookup fails")
	}
	if errors.Is(err, ErrMissingAPIKey) {
		t.Errorf("storage failure reported as a missing key: %v", err)
	}
}

func TestGenerateRoadmap_UpstreamFailurePersistsNothing(t *testing.T) {
	db := newTestDB(t)
	user, goal := seedUserAndGoal(t, db)
	cipher, _ := NewKeyCipher("test")
	seedAPIKey(t, db, cipher, user, "sk-test")
	completer := &fakeCompleter{err: ErrUpstream}

	_, err := GenerateRoadmap(context.Background(), db, cipher, completer, goal.ID, user.ID)
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("error = %v, want ErrUpstream", err)
	}
	assertNoRoadmaps(t, db)
}

func TestGenerateRoadmap_MalformedCompletionPersistsNothing(t *testing.T) {
	db := newTestDB(t)
	user, goal := seedUserAndGoal(t, db)
	cipher, _ := NewKeyCipher("test")
	seedAPIKey(t, db, cipher, user, "sk-test")

	for _, response := range []string{
		`{"title": "not a list", "description": "x"}`,
		`[{"title": "missing description"}]`,
		"plain prose, no JSON",
		"[]",
	} {
		completer := &fakeCompleter{response: response}
		_, err := GenerateRoadmap(context.Background(), db, cipher, completer, goal.ID, user.ID)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("response %q: error = %v, want ErrMalformedResponse", response, err)
		}
	}
	assertNoRoadmaps(t, db)
}

func TestGenerateRoadmap_ConflictBeforeUpstreamCall(t *testing.T) {
	db := newTestDB(t)
	user, goal := seedUserAndGoal(t, db)
	cipher, _ := NewKeyCipher("test")
	seedAPIKey(t, db, cipher, user, "sk-test")

	if _, err := CreateRoadmap(db, goal.ID, user.ID, "Existing", "", candidates("a")); err != nil {
		t.Fatalf("CreateRoadmap: %v", err)
	}

	completer := &fakeCompleter{response: "[]"}
	_, err := GenerateRoadmap(context.Background(), db, cipher, completer, goal.ID, user.ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("error = %v, want ErrConflict", err)
	}
	if completer.calls != 0 {
		t.Error("upstream was called for a goal that already has a roadmap")
	}
}

func TestGenerateRoadmap_ForeignGoalNotFound(t *testing.T) {
	db := newTestDB(t)
	_, goal := seedUserAndGoal(t, db)
	intruder, _ := seedUserAndGoal(t, db)
	cipher, _ := NewKeyCipher("test")
	completer := &fakeCompleter{response: "[]"}

	_, err := GenerateRoadmap(context.Background(), db, cipher, completer, goal.ID, intruder.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if completer.calls != 0 {
		t.Error("upstream was called for a goal the user does not own")
	}
}

func assertNoRoadmaps(t *testing.T, db *gorm.DB) {
	t.Helper()
	var roadmaps, steps int64
	db.Model(&models.Roadmap{}).Count(&roadmaps)
	db.Model(&models.RoadmapStep{}).Count(&steps)
	if roadmaps != 0 || steps != 0 {
		t.Errorf("persisted %d roadmaps and %d steps after a failed pipeline, want none", roadmaps, steps)
	}
}
