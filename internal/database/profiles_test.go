package database

import (
	"context"
	"errors"
	"testing"

	"jobpilot-go/internal/models"
	"jobpilot-go/internal/store"
)

func completeProfile(userId string) *models.UserProfile {
	return &models.UserProfile{
		UserId:   userId,
		FullName: "Test User",
		Email:    "test@example.com",
		Phone:    "9999999999",
		Location: "Bengaluru",
		Education: []models.EducationEntry{
			{Institution: "IIT Madras", Degree: "B.Tech", Field: "CSE"},
		},
		Experience: []models.WorkExperienceEntry{
			{Company: "Acme Corp", Title: "Engineer", Bullets: []string{"Built services"}},
		},
		SkillCategories: []models.SkillCategory{
			{Name: "Languages", Skills: []string{"Go", "Python"}},
		},
	}
}

func TestGetProfile_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.GetProfile(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestReplaceProfile_RoundTrip(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, service, "user1", "Test User", "test@example.com")

	draft := completeProfile("user1")
	// Normalization should trim this before storage.
	draft.Headline = "  Backend engineer  "
	draft.Experience[0].Bullets = []string{"Built services", "  ", ""}

	if err := service.ReplaceProfile(ctx, draft); err != nil {
		t.Fatalf("ReplaceProfile failed: %v", err)
	}

	fetched, err := service.GetProfile(ctx, "user1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if fetched.Headline != "Backend engineer" {
		t.Errorf("Expected trimmed headline, got %q", fetched.Headline)
	}
	if len(fetched.Experience[0].Bullets) != 1 {
		t.Errorf("Expected empty bullets dropped, got %v", fetched.Experience[0].Bullets)
	}
	if len(fetched.SkillCategories[0].Skills) != 2 {
		t.Errorf("Skills did not round-trip: %v", fetched.SkillCategories[0].Skills)
	}
}

func TestReplaceProfile_InvalidLeavesStoredDocument(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, service, "user1", "Test User", "test@example.com")

	if err := service.ReplaceProfile(ctx, completeProfile("user1")); err != nil {
		t.Fatalf("ReplaceProfile failed: %v", err)
	}

	bad := completeProfile("user1")
	bad.Email = "not-an-email"
	err := service.ReplaceProfile(ctx, bad)
	var fieldErrs models.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}

	fetched, err := service.GetProfile(ctx, "user1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if fetched.Email != "test@example.com" {
		t.Errorf("Stored document was mutated by failed replace: %s", fetched.Email)
	}
}

func TestIsProfileCompleteForAutoApply(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, service, "user1", "Test User", "test@example.com")

	// The seeded empty profile is not complete.
	complete, err := service.IsProfileCompleteForAutoApply(ctx, "user1")
	if err != nil {
		t.Fatalf("IsProfileCompleteForAutoApply failed: %v", err)
	}
	if complete {
		t.Error("Empty profile should not be complete")
	}

	if err := service.ReplaceProfile(ctx, completeProfile("user1")); err != nil {
		t.Fatalf("ReplaceProfile failed: %v", err)
	}

	complete, err = service.IsProfileCompleteForAutoApply(ctx, "user1")
	if err != nil {
		t.Fatalf("IsProfileCompleteForAutoApply failed: %v", err)
	}
	if !complete {
		t.Error("Expected complete profile")
	}

	// Unknown user is simply incomplete, not an error.
	complete, err = service.IsProfileCompleteForAutoApply(ctx, "missing")
	if err != nil {
		t.Fatalf("IsProfileCompleteForAutoApply failed: %v", err)
	}
	if complete {
		t.Error("Missing profile should not be complete")
	}
}

func TestGetProfileSnapshot(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, service, "user1", "Test User", "test@example.com")
	if err := service.ReplaceProfile(ctx, completeProfile("user1")); err != nil {
		t.Fatalf("ReplaceProfile failed: %v", err)
	}

	snapshot, err := service.GetProfileSnapshot(ctx, "user1")
	if err != nil {
		t.Fatalf("GetProfileSnapshot failed: %v", err)
	}
	if snapshot.FullName != "Test User" || snapshot.Phone != "9999999999" {
		t.Errorf("Unexpected snapshot: %+v", snapshot)
	}
	if snapshot.CapturedAt.IsZero() {
		t.Error("Expected captured_at to be set")
	}
	if len(snapshot.Skills) != 1 {
		t.Errorf("Expected skills in snapshot, got %+v", snapshot.Skills)
	}
}
