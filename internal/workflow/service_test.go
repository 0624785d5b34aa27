package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobpilot-go/internal/autoapply"
	"jobpilot-go/internal/database"
	"jobpilot-go/internal/models"
	"jobpilot-go/internal/store"

	"github.com/google/uuid"
)

type fakeExecutor struct {
	result *autoapply.SubmissionResult
	err    error
	calls  int
}

func (f *fakeExecutor) Execute(ctx context.Context, job *models.JobListing, resume *models.OptimizedResume, snapshot *models.ProfileSnapshot) (*autoapply.SubmissionResult, error) {
	f.calls++
	return f.result, f.err
}

func setupWorkflowTest(t *testing.T, executor autoapply.Executor) (*Service, *database.Service, func()) {
	t.Helper()
	dbService, err := database.NewService(context.Background(), models.DatabaseConfig{
		Path:         ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
		PingTimeout:  time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if _, err := dbService.CreateUser(context.Background(), "user1", "Test User", "test@example.com", false); err != nil {
		dbService.Close()
		t.Fatalf("Failed to create test user: %v", err)
	}

	service := NewService(dbService, executor, models.ExecutorConfig{Timeout: 5 * time.Second})
	return service, dbService, dbService.Close
}

func storeCompleteProfile(t *testing.T, dbService *database.Service, userId string) {
	t.Helper()
	profile := &models.UserProfile{
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
			{Name: "Languages", Skills: []string{"Go"}},
		},
	}
	if err := dbService.ReplaceProfile(context.Background(), profile); err != nil {
		t.Fatalf("ReplaceProfile failed: %v", err)
	}
}

func storeTestJob(t *testing.T, dbService *database.Service, active bool) *models.JobListing {
	t.Helper()
	now := time.Now()
	job := &models.JobListing{
		Id:                 uuid.New().String(),
		CompanyName:        "Acme Corp",
		RoleTitle:          "Backend Engineer",
		Domain:             "Software",
		LocationType:       models.LocationTypeRemote,
		ExperienceRequired: "0-2 years",
		Qualification:      "B.Tech",
		ShortDescription:   "Build backend services",
		FullDescription:    "Build and operate backend services for the hiring platform in Go.",
		ApplicationLink:    "https://careers.acme.example/apply/123",
		PostedDate:         now,
		SourceAPI:          "admin",
		IsActive:           active,
		CreatedAt:          now,
	}
	if err := dbService.InsertJobListing(context.Background(), job); err != nil {
		t.Fatalf("InsertJobListing failed: %v", err)
	}
	return job
}

func storeTestResume(t *testing.T, dbService *database.Service, userId, jobId string) *models.OptimizedResume {
	t.Helper()
	resume := &models.OptimizedResume{
		Id:        uuid.New().String(),
		UserId:    userId,
		JobId:     jobId,
		Content:   "optimized resume content",
		PdfURL:    "https://files.example/resume.pdf",
		Score:     80,
		CreatedAt: time.Now(),
	}
	if err := dbService.InsertOptimizedResume(context.Background(), resume); err != nil {
		t.Fatalf("InsertOptimizedResume failed: %v", err)
	}
	return resume
}

func TestSubmitAuto_Success(t *testing.T) {
	executor := &fakeExecutor{result: &autoapply.SubmissionResult{
		Success:       true,
		ScreenshotURL: "https://screenshots.example/1.png",
	}}
	service, dbService, cleanup := setupWorkflowTest(t, executor)
	defer cleanup()

	ctx := context.Background()
	storeCompleteProfile(t, dbService, "user1")
	job := storeTestJob(t, dbService, true)
	resume := storeTestResume(t, dbService, "user1", job.Id)

	result, err := service.SubmitAuto(ctx, "user1", models.AutoApplyRequest{
		JobId:             job.Id,
		OptimizedResumeId: resume.Id,
	})
	if err != nil {
		t.Fatalf("SubmitAuto failed: %v", err)
	}
	if !result.Success || result.Status != models.ApplicationStatusSubmitted {
		t.Errorf("Unexpected result: %+v", result)
	}
	if result.ScreenshotURL != "https://screenshots.example/1.png" {
		t.Errorf("Expected screenshot URL, got %q", result.ScreenshotURL)
	}

	entry, err := dbService.GetApplicationLog(ctx, result.ApplicationId)
	if err != nil {
		t.Fatalf("GetApplicationLog failed: %v", err)
	}
	if !entry.Terminal() || entry.Status != models.ApplicationStatusSubmitted {
		t.Errorf("Expected terminal submitted entry, got %s", entry.Status)
	}
	if entry.Snapshot == nil || entry.Snapshot.FullName != "Test User" {
		t.Errorf("Expected profile snapshot on auto entry, got %+v", entry.Snapshot)
	}
}

func TestSubmitAuto_MissingJob(t *testing.T) {
	executor := &fakeExecutor{}
	service, dbService, cleanup := setupWorkflowTest(t, executor)
	defer cleanup()

	ctx := context.Background()
	storeCompleteProfile(t, dbService, "user1")

	_, err := service.SubmitAuto(ctx, "user1", models.AutoApplyRequest{
		JobId:             "missing",
		OptimizedResumeId: "irrelevant",
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if executor.calls != 0 {
		t.Error("Executor must not run when preconditions fail")
	}

	// A precondition failure leaves no trace in the application log.
	logs, err := dbService.ListApplicationLogs(ctx, "user1", 10, 0)
	if err != nil {
		t.Fatalf("ListApplicationLogs failed: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("Expected no log entries, got %d", len(logs))
	}
}

func TestSubmitAuto_InactiveJob(t *testing.T) {
	executor := &fakeExecutor{}
	service, dbService, cleanup := setupWorkflowTest(t, executor)
	defer cleanup()

	storeCompleteProfile(t, dbService, "user1")
	job := storeTestJob(t, dbService, false)
	resume := storeTestResume(t, dbService, "user1", job.Id)

	_, err := service.SubmitAuto(context.Background(), "user1", models.AutoApplyRequest{
		JobId:             job.Id,
		OptimizedResumeId: resume.Id,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for inactive job, got %v", err)
	}
}

func TestSubmitAuto_ProfileIncomplete(t *testing.T) {
	executor := &fakeExecutor{}
	service, dbService, cleanup := setupWorkflowTest(t, executor)
	defer cleanup()

	ctx := context.Background()
	// The seeded empty profile is missing phone, education and experience.
	job := storeTestJob(t, dbService, true)
	resume := storeTestResume(t, dbService, "user1", job.Id)

	_, err := service.SubmitAuto(ctx, "user1", models.AutoApplyRequest{
		JobId:             job.Id,
		OptimizedResumeId: resume.Id,
	})
	if !errors.Is(err, store.ErrProfileIncomplete) {
		t.Fatalf("Expected ErrProfileIncomplete, got %v", err)
	}
	if !IsPrecondition(err) {
		t.Error("Expected a precondition failure")
	}

	logs, err := dbService.ListApplicationLogs(ctx, "user1", 10, 0)
	if err != nil {
		t.Fatalf("ListApplicationLogs failed: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("Expected no log entries, got %d", len(logs))
	}
}

func TestSubmitAuto_ForeignResume(t *testing.T) {
	executor := &fakeExecutor{}
	service, dbService, cleanup := setupWorkflowTest(t, executor)
	defer cleanup()

	ctx := context.Background()
	if _, err := dbService.CreateUser(ctx, "user2", "Other User", "other@example.com", false); err != nil {
		t.Fatalf("Failed to create second user: %v", err)
	}
	storeCompleteProfile(t, dbService, "user1")
	job := storeTestJob(t, dbService, true)
	resume := storeTestResume(t, dbService, "user2", job.Id)

	_, err := service.SubmitAuto(ctx, "user1", models.AutoApplyRequest{
		JobId:             job.Id,
		OptimizedResumeId: resume.Id,
	})
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign resume, got %v", err)
	}
}

func TestSubmitAuto_ExecutorFailure(t *testing.T) {
	executor := &fakeExecutor{result: &autoapply.SubmissionResult{
		Success:      false,
		ErrorMessage: "portal rejected the submission",
	}}
	service, dbService, cleanup := setupWorkflowTest(t, executor)
	defer cleanup()

	ctx := context.Background()
	storeCompleteProfile(t, dbService, "user1")
	job := storeTestJob(t, dbService, true)
	resume := storeTestResume(t, dbService, "user1", job.Id)

	result, err := service.SubmitAuto(ctx, "user1", models.AutoApplyRequest{
		JobId:             job.Id,
		OptimizedResumeId: resume.Id,
	})
	if err != nil {
		t.Fatalf("SubmitAuto failed: %v", err)
	}
	if result.Success || result.Status != models.ApplicationStatusFailed {
		t.Errorf("Unexpected result: %+v", result)
	}
	if result.FallbackURL != job.ApplicationLink {
		t.Errorf("Expected fallback %q, got %q", job.ApplicationLink, result.FallbackURL)
	}

	entry, err := dbService.GetApplicationLog(ctx, result.ApplicationId)
	if err != nil {
		t.Fatalf("GetApplicationLog failed: %v", err)
	}
	if entry.Status != models.ApplicationStatusFailed {
		t.Errorf("Expected failed entry, got %s", entry.Status)
	}
	if entry.ErrorMessage != "portal rejected the submission" {
		t.Errorf("Expected error message persisted, got %q", entry.ErrorMessage)
	}
	if entry.FallbackURL != job.ApplicationLink {
		t.Errorf("Expected fallback persisted, got %q", entry.FallbackURL)
	}
}

func TestSubmitAuto_ExecutorError(t *testing.T) {
	executor := &fakeExecutor{err: errors.New("browser session crashed")}
	service, dbService, cleanup := setupWorkflowTest(t, executor)
	defer cleanup()

	ctx := context.Background()
	storeCompleteProfile(t, dbService, "user1")
	job := storeTestJob(t, dbService, true)
	resume := storeTestResume(t, dbService, "user1", job.Id)

	// An executor error is an execution failure, not a request failure: the
	// caller still gets a decided outcome.
	result, err := service.SubmitAuto(ctx, "user1", models.AutoApplyRequest{
		JobId:             job.Id,
		OptimizedResumeId: resume.Id,
	})
	if err != nil {
		t.Fatalf("SubmitAuto failed: %v", err)
	}
	if result.Success || result.Status != models.ApplicationStatusFailed {
		t.Errorf("Unexpected result: %+v", result)
	}
	if result.Error != "browser session crashed" {
		t.Errorf("Expected executor error surfaced, got %q", result.Error)
	}

	entry, err := dbService.GetApplicationLog(ctx, result.ApplicationId)
	if err != nil {
		t.Fatalf("GetApplicationLog failed: %v", err)
	}
	if !entry.Terminal() {
		t.Errorf("Entry must reach a terminal status, got %s", entry.Status)
	}
}

func TestSubmitManual(t *testing.T) {
	service, dbService, cleanup := setupWorkflowTest(t, &fakeExecutor{})
	defer cleanup()

	ctx := context.Background()
	job := storeTestJob(t, dbService, true)
	resume := storeTestResume(t, dbService, "user1", job.Id)

	entry, err := service.SubmitManual(ctx, "user1", models.ManualApplyRequest{
		JobId:       job.Id,
		ResumeId:    resume.Id,
		RedirectURL: job.ApplicationLink,
	})
	if err != nil {
		t.Fatalf("SubmitManual failed: %v", err)
	}
	if entry.Mode != models.ApplicationModeManual || entry.Status != models.ApplicationStatusSubmitted {
		t.Errorf("Unexpected entry: %+v", entry)
	}
	if entry.RedirectURL != job.ApplicationLink {
		t.Errorf("Expected redirect URL recorded, got %q", entry.RedirectURL)
	}

	// Reapplying to the same job is allowed and appends a second entry.
	if _, err := service.SubmitManual(ctx, "user1", models.ManualApplyRequest{
		JobId:       job.Id,
		ResumeId:    resume.Id,
		RedirectURL: job.ApplicationLink,
	}); err != nil {
		t.Fatalf("Second SubmitManual failed: %v", err)
	}

	logs, err := service.Applications(ctx, "user1", 10, 0)
	if err != nil {
		t.Fatalf("Applications failed: %v", err)
	}
	if len(logs) != 2 {
		t.Errorf("Expected 2 entries, got %d", len(logs))
	}
}

func TestApplication_OwnerScoped(t *testing.T) {
	service, dbService, cleanup := setupWorkflowTest(t, &fakeExecutor{})
	defer cleanup()

	ctx := context.Background()
	if _, err := dbService.CreateUser(ctx, "user2", "Other User", "other@example.com", false); err != nil {
		t.Fatalf("Failed to create second user: %v", err)
	}
	job := storeTestJob(t, dbService, true)
	resume := storeTestResume(t, dbService, "user1", job.Id)

	entry, err := service.SubmitManual(ctx, "user1", models.ManualApplyRequest{
		JobId:       job.Id,
		ResumeId:    resume.Id,
		RedirectURL: job.ApplicationLink,
	})
	if err != nil {
		t.Fatalf("SubmitManual failed: %v", err)
	}

	if _, err := service.Application(ctx, "user1", entry.Id); err != nil {
		t.Errorf("Owner read failed: %v", err)
	}
	if _, err := service.Application(ctx, "user2", entry.Id); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for foreign entry, got %v", err)
	}
}
