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

package autoapply

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"jobpilot-go/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmissionResult is the outcome of one auto-apply attempt against an
// external job portal.
type SubmissionResult struct {
	Success       bool
	ScreenshotURL string
	ErrorMessage  string
}

// Executor submits a job application on the user's behalf. Implementations
// own browser automation, portal integrations, and the like; the workflow
// treats the call as opaque and only interprets the result.
type Executor interface {
	Execute(ctx context.Context, job *models.JobListing, resume *models.OptimizedResume, snapshot *models.ProfileSnapshot) (*SubmissionResult, error)
}

// SimulatedExecutor stands in for a real portal integration. It sleeps for
// a configured latency then succeeds with a configured probability. Used in
// development and in tests.
type SimulatedExecutor struct {
	cfg models.ExecutorConfig

	mu  sync.Mutex
	rng *rand.Rand
}

func NewSimulatedExecutor(cfg models.ExecutorConfig) *SimulatedExecutor {
	return &SimulatedExecutor{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (e *SimulatedExecutor) Execute(ctx context.Context, job *models.JobListing, resume *models.OptimizedResume, snapshot *models.ProfileSnapshot) (*SubmissionResult, error) {
	zap.L().Info("Simulating application submission",
		zap.String("job_id", job.Id),
		zap.String("company", job.CompanyName),
		zap.String("resume_id", resume.Id))

	if e.cfg.SimulatedLatency > 0 {
		select {
		case <-time.After(e.cfg.SimulatedLatency):
		case <-ctx.Done():
			return nil, fmt.Errorf("submission interrupted: %w", ctx.Err())
		}
	}

	e.mu.Lock()
	roll := e.rng.Float64()
	e.mu.Unlock()

	if roll >= e.cfg.SimulatedSuccess {
		zap.L().Warn("Simulated submission failed",
			zap.String("job_id", job.Id),
			zap.Float64("roll", roll))
		return &SubmissionResult{
			Success:      false,
			ErrorMessage: "portal rejected the submission",
		}, nil
	}

	return &SubmissionResult{
		Success:       true,
		ScreenshotURL: fmt.Sprintf("https://screenshots.jobpilot.local/%s.png", uuid.New().String()),
	}, nil
}
