package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobpilot-go/internal/models"
	"jobpilot-go/internal/store"
)

func insertTestLog(t *testing.T, service *Service, status string) *models.ApplicationLog {
	t.Helper()
	now := time.Now()
	entry := &models.ApplicationLog{
		Id:       "log1",
		UserId:   "user1",
		JobId:    "job1",
		ResumeId: "resume1",
		Mode:     models.ApplicationModeAuto,
		Status:   status,
		Snapshot: &models.ProfileSnapshot{
			FullName:   "Test User",
			Email:      "test@example.com",
			Phone:      "9999999999",
			Location:   "Bengaluru",
			CapturedAt: now,
		},
		AppliedAt: now,
		UpdatedAt: now,
	}
	if err := service.InsertApplicationLog(context.Background(), entry); err != nil {
		t.Fatalf("InsertApplicationLog failed: %v", err)
	}
	return entry
}

func TestApplicationLog_SnapshotRoundTrip(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	insertTestLog(t, service, models.ApplicationStatusPending)

	fetched, err := service.GetApplicationLog(context.Background(), "log1")
	if err != nil {
		t.Fatalf("GetApplicationLog failed: %v", err)
	}
	if fetched.Snapshot == nil {
		t.Fatal("Expected snapshot on auto log entry")
	}
	if fetched.Snapshot.FullName != "Test User" || fetched.Snapshot.Phone != "9999999999" {
		t.Errorf("Snapshot did not round-trip: %+v", fetched.Snapshot)
	}
}

func TestCompleteApplicationLog(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	insertTestLog(t, service, models.ApplicationStatusPending)

	err := service.CompleteApplicationLog(ctx, store.CompleteApplicationParams{
		LogId:         "log1",
		Status:        models.ApplicationStatusSubmitted,
		ScreenshotURL: "https://screenshots.example.com/1.png",
	})
	if err != nil {
		t.Fatalf("CompleteApplicationLog failed: %v", err)
	}

	fetched, err := service.GetApplicationLog(ctx, "log1")
	if err != nil {
		t.Fatalf("GetApplicationLog failed: %v", err)
	}
	if fetched.Status != models.ApplicationStatusSubmitted {
		t.Errorf("Expected submitted, got %s", fetched.Status)
	}
	if !fetched.Terminal() {
		t.Error("Expected terminal status after completion")
	}
}

func TestCompleteApplicationLog_TerminalNeverOverwritten(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	insertTestLog(t, service, models.ApplicationStatusPending)

	if err := service.CompleteApplicationLog(ctx, store.CompleteApplicationParams{
		LogId:  "log1",
		Status: models.ApplicationStatusSubmitted,
	}); err != nil {
		t.Fatalf("First completion failed: %v", err)
	}

	err := service.CompleteApplicationLog(ctx, store.CompleteApplicationParams{
		LogId:        "log1",
		Status:       models.ApplicationStatusFailed,
		ErrorMessage: "late failure",
	})
	if !errors.Is(err, store.ErrConcurrentModification) {
		t.Fatalf("Expected ErrConcurrentModification, got %v", err)
	}

	fetched, err := service.GetApplicationLog(ctx, "log1")
	if err != nil {
		t.Fatalf("GetApplicationLog failed: %v", err)
	}
	if fetched.Status != models.ApplicationStatusSubmitted {
		t.Errorf("Terminal status was overwritten: %s", fetched.Status)
	}
}

func TestCompleteApplicationLog_RejectsNonTerminalStatus(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	insertTestLog(t, service, models.ApplicationStatusPending)

	err := service.CompleteApplicationLog(context.Background(), store.CompleteApplicationParams{
		LogId:  "log1",
		Status: models.ApplicationStatusPending,
	})
	if err == nil {
		t.Error("Expected error completing to a non-terminal status")
	}
}

func TestListApplicationLogs(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	now := time.Now()
	for i, id := range []string{"log1", "log2"} {
		entry := &models.ApplicationLog{
			Id:          id,
			UserId:      "user1",
			JobId:       "job1",
			ResumeId:    "resume1",
			Mode:        models.ApplicationModeManual,
			Status:      models.ApplicationStatusSubmitted,
			RedirectURL: "https://jobs.example.com/apply",
			AppliedAt:   now.Add(time.Duration(i) * time.Minute),
			UpdatedAt:   now,
		}
		if err := service.InsertApplicationLog(ctx, entry); err != nil {
			t.Fatalf("InsertApplicationLog failed: %v", err)
		}
	}

	entries, err := service.ListApplicationLogs(ctx, "user1", 10, 0)
	if err != nil {
		t.Fatalf("ListApplicationLogs failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Id != "log2" {
		t.Errorf("Expected newest-first ordering, got %s first", entries[0].Id)
	}
	if entries[0].Snapshot != nil {
		t.Error("Manual entry should have no snapshot")
	}
}
