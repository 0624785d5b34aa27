package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"jobpilot-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDb(t *testing.T) (*Service, func()) {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// A pooled second connection would see a different in-memory database.
	db.SetMaxOpenConns(1)

	service := &Service{db: db}
	if err := service.initSchema(false); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return service, cleanup
}

func createTestUser(t *testing.T, service *Service, id, name, email string) {
	t.Helper()
	if _, err := service.CreateUser(context.Background(), id, name, email, false); err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
}

func TestCreateUser_Duplicate(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, service, "user1", "Test User", "test@example.com")

	if _, err := service.CreateUser(ctx, "user2", "Other User", "test@example.com", false); err == nil {
		t.Error("Expected error creating user with duplicate email")
	}
}

func TestCreateUser_CreatesEmptyProfile(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, service, "user1", "Test User", "test@example.com")

	profile, err := service.GetProfile(ctx, "user1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if profile.FullName != "Test User" || profile.Email != "test@example.com" {
		t.Errorf("Unexpected seeded profile: %+v", profile)
	}
}

func TestGetUserById_NotFound(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	_, err := service.GetUserById(context.Background(), "missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, service, "user1", "Test User", "test@example.com")

	session, err := service.CreateSession(ctx, "user1", time.Hour)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if session.Token == "" {
		t.Fatal("Expected non-empty session token")
	}

	fetched, err := service.GetSessionByToken(ctx, session.Token)
	if err != nil {
		t.Fatalf("GetSessionByToken failed: %v", err)
	}
	if fetched.UserId != "user1" {
		t.Errorf("Expected user1, got %s", fetched.UserId)
	}

	if err := service.DeleteSession(ctx, session.Token); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	if _, err := service.GetSessionByToken(ctx, session.Token); !errors.Is(err, store.ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated after delete, got %v", err)
	}
}

func TestGetSessionByToken_Expired(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	createTestUser(t, service, "user1", "Test User", "test@example.com")

	session, err := service.CreateSession(ctx, "user1", -time.Minute)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	if _, err := service.GetSessionByToken(ctx, session.Token); !errors.Is(err, store.ErrUnauthenticated) {
		t.Errorf("Expected ErrUnauthenticated for expired session, got %v", err)
	}
}
