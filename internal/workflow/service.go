/**
 * Copyright 2025-present Jobpilot, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"jobpilot-go/internal/autoapply"
	"jobpilot-go/internal/models"
	"jobpilot-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service runs the application workflow: manual redirect logging and the
// pending -> submitted|failed auto-apply state machine.
type Service struct {
	db       store.Store
	executor autoapply.Executor
	timeout  time.Duration
}

func NewService(db store.Store, executor autoapply.Executor, cfg models.ExecutorConfig) *Service {
	return &Service{
		db:       db,
		executor: executor,
		timeout:  cfg.Timeout,
	}
}

// SubmitManual records a manual application: the user was handed the job's
// external link and the attempt is logged as submitted in one write.
func (s *Service) SubmitManual(ctx context.Context, userId string, req models.ManualApplyRequest) (*models.ApplicationLog, error) {
	job, err := s.db.GetJobListing(ctx, req.JobId)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, fmt.Errorf("job listing %s is no longer active: %w", req.JobId, store.ErrNotFound)
	}

	resume, err := s.db.GetOptimizedResume(ctx, req.ResumeId)
	if err != nil {
		return nil, err
	}
	if resume.UserId != userId {
		return nil, fmt.Errorf("resume %s does not belong to user: %w", req.ResumeId, store.ErrNotFound)
	}

	now := time.Now()
	entry := &models.ApplicationLog{
		Id:          uuid.New().String(),
		UserId:      userId,
		JobId:       req.JobId,
		ResumeId:    req.ResumeId,
		Mode:        models.ApplicationModeManual,
		Status:      models.ApplicationStatusSubmitted,
		RedirectURL: req.RedirectURL,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.db.InsertApplicationLog(ctx, entry); err != nil {
		return nil, err
	}

	zap.L().Info("Manual application logged",
		zap.String("application_id", entry.Id),
		zap.String("user_id", userId),
		zap.String("job_id", req.JobId))
	return entry, nil
}

// SubmitAuto runs the full auto-apply sequence. All preconditions are checked
// before any row is written; a precondition failure leaves no trace in the
// application log. Once the pending row exists the attempt always reaches a
// terminal status, whatever the executor does.
func (s *Service) SubmitAuto(ctx context.Context, userId string, req models.AutoApplyRequest) (*models.AutoApplyResult, error) {
	job, err := s.db.GetJobListing(ctx, req.JobId)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, fmt.Errorf("job listing %s is no longer active: %w", req.JobId, store.ErrNotFound)
	}

	complete, err := s.db.IsProfileCompleteForAutoApply(ctx, userId)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, fmt.Errorf("user %s: %w", userId, store.ErrProfileIncomplete)
	}

	resume, err := s.db.GetOptimizedResume(ctx, req.OptimizedResumeId)
	if err != nil {
		return nil, err
	}
	if resume.UserId != userId {
		return nil, fmt.Errorf("resume %s does not belong to user: %w", req.OptimizedResumeId, store.ErrNotFound)
	}

	snapshot, err := s.db.GetProfileSnapshot(ctx, userId)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry := &models.ApplicationLog{
		Id:        uuid.New().String(),
		UserId:    userId,
		JobId:     job.Id,
		ResumeId:  resume.Id,
		Mode:      models.ApplicationModeAuto,
		Status:    models.ApplicationStatusPending,
		Snapshot:  snapshot,
		AppliedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.InsertApplicationLog(ctx, entry); err != nil {
		return nil, err
	}

	zap.L().Info("Auto application started",
		zap.String("application_id", entry.Id),
		zap.String("user_id", userId),
		zap.String("job_id", job.Id),
		zap.String("company", job.CompanyName))

	execCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, execErr := s.executor.Execute(execCtx, job, resume, snapshot)

	params := store.CompleteApplicationParams{LogId: entry.Id}
	outcome := &models.AutoApplyResult{ApplicationId: entry.Id, ResumeURL: resume.PdfURL}

	switch {
	case execErr != nil:
		params.Status = models.ApplicationStatusFailed
		params.ErrorMessage = execErr.Error()
		params.FallbackURL = job.ApplicationLink
		outcome.Success = false
		outcome.Status = models.ApplicationStatusFailed
		outcome.Message = "Automatic submission failed. You can still apply directly."
		outcome.Error = execErr.Error()
		outcome.FallbackURL = job.ApplicationLink
	case !result.Success:
		params.Status = models.ApplicationStatusFailed
		params.ErrorMessage = result.ErrorMessage
		params.FallbackURL = job.ApplicationLink
		outcome.Success = false
		outcome.Status = models.ApplicationStatusFailed
		outcome.Message = "Automatic submission failed. You can still apply directly."
		outcome.Error = result.ErrorMessage
		outcome.FallbackURL = job.ApplicationLink
	default:
		params.Status = models.ApplicationStatusSubmitted
		params.ScreenshotURL = result.ScreenshotURL
		outcome.Success = true
		outcome.Status = models.ApplicationStatusSubmitted
		outcome.Message = fmt.Sprintf("Application submitted to %s", job.CompanyName)
		outcome.ScreenshotURL = result.ScreenshotURL
	}

	// The outcome is decided at this point. A failure to persist it is
	// logged and the decided outcome is still returned to the caller.
	if err := s.db.CompleteApplicationLog(ctx, params); err != nil {
		zap.L().Error("Failed to persist application outcome",
			zap.String("application_id", entry.Id),
			zap.String("status", params.Status),
			zap.Error(err))
	}

	zap.L().Info("Auto application finished",
		zap.String("application_id", entry.Id),
		zap.String("status", outcome.Status),
		zap.Bool("success", outcome.Success))
	return outcome, nil
}

// Applications returns a newest-first page of the user's application history.
func (s *Service) Applications(ctx context.Context, userId string, limit, offset int) ([]models.ApplicationLog, error) {
	return s.db.ListApplicationLogs(ctx, userId, limit, offset)
}

// Application returns one application log entry, scoped to its owner.
func (s *Service) Application(ctx context.Context, userId, logId string) (*models.ApplicationLog, error) {
	entry, err := s.db.GetApplicationLog(ctx, logId)
	if err != nil {
		return nil, err
	}
	if entry.UserId != userId {
		return nil, fmt.Errorf("application log %s does not belong to user: %w", logId, store.ErrNotFound)
	}
	return entry, nil
}

// IsPrecondition reports whether an auto-apply error is a precondition
// failure rather than an execution failure.
func IsPrecondition(err error) bool {
	return errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrProfileIncomplete)
}
