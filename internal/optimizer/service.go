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

package optimizer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"jobpilot-go/internal/models"
	"jobpilot-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service is the optimization gateway. It resolves the listing, hands the
// resume to the optimizer, and persists the returned artifact. Nothing is
// written when the optimizer fails.
type Service struct {
	db     store.Store
	client Client
}

func NewService(db store.Store, client Client) *Service {
	return &Service{db: db, client: client}
}

// OptimizeForJob produces a new optimized resume for the (user, job) pair.
// When the request carries no resume text the user's stored profile is
// rendered as the base resume. The caller's bearer token is forwarded to the
// optimization service.
func (s *Service) OptimizeForJob(ctx context.Context, userId, bearerToken string, req models.OptimizeResumeRequest) (*models.OptimizedResume, error) {
	job, err := s.db.GetJobListing(ctx, req.JobId)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, fmt.Errorf("job listing %s is no longer active: %w", req.JobId, store.ErrNotFound)
	}

	resumeText := strings.TrimSpace(req.ResumeText)
	if resumeText == "" {
		profile, err := s.db.GetProfile(ctx, userId)
		if err != nil {
			return nil, err
		}
		resumeText = renderProfileText(profile)
	}

	output, err := s.client.Optimize(ctx, OptimizationInput{
		ResumeText:      resumeText,
		RoleTitle:       job.RoleTitle,
		CompanyName:     job.CompanyName,
		Domain:          job.Domain,
		FullDescription: job.FullDescription,
		BearerToken:     bearerToken,
	})
	if err != nil {
		zap.L().Error("Resume optimization failed",
			zap.String("user_id", userId),
			zap.String("job_id", job.Id),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", store.ErrOptimizationFailed, err)
	}

	resume := &models.OptimizedResume{
		Id:        uuid.New().String(),
		UserId:    userId,
		JobId:     job.Id,
		Content:   output.Content,
		PdfURL:    output.PdfURL,
		DocxURL:   output.DocxURL,
		Score:     output.Score,
		CreatedAt: time.Now(),
	}
	if err := s.db.InsertOptimizedResume(ctx, resume); err != nil {
		return nil, err
	}

	zap.L().Info("Optimized resume stored",
		zap.String("resume_id", resume.Id),
		zap.String("user_id", userId),
		zap.String("job_id", job.Id),
		zap.Int("score", resume.Score))
	return resume, nil
}

// Resumes returns a newest-first page of the user's optimized resumes.
func (s *Service) Resumes(ctx context.Context, userId string, limit, offset int) ([]models.OptimizedResume, error) {
	return s.db.ListOptimizedResumes(ctx, userId, limit, offset)
}

// Resume returns one optimized resume, scoped to its owner.
func (s *Service) Resume(ctx context.Context, userId, resumeId string) (*models.OptimizedResume, error) {
	resume, err := s.db.GetOptimizedResume(ctx, resumeId)
	if err != nil {
		return nil, err
	}
	if resume.UserId != userId {
		return nil, fmt.Errorf("resume %s does not belong to user: %w", resumeId, store.ErrNotFound)
	}
	return resume, nil
}

func renderProfileText(profile *models.UserProfile) string {
	var sb strings.Builder
	sb.WriteString(profile.FullName + "\n")
	sb.WriteString(profile.Email + "\n")
	if profile.Phone != "" {
		sb.WriteString(profile.Phone + "\n")
	}
	if profile.Headline != "" {
		sb.WriteString("\n" + profile.Headline + "\n")
	}

	if len(profile.Experience) > 0 {
		sb.WriteString("\nExperience\n")
		for _, exp := range profile.Experience {
			sb.WriteString(fmt.Sprintf("%s, %s\n", exp.Title, exp.Company))
			for _, bullet := range exp.Bullets {
				sb.WriteString("- " + bullet + "\n")
			}
		}
	}

	if len(profile.Education) > 0 {
		sb.WriteString("\nEducation\n")
		for _, edu := range profile.Education {
			sb.WriteString(fmt.Sprintf("%s, %s\n", edu.Degree, edu.Institution))
		}
	}

	if len(profile.SkillCategories) > 0 {
		sb.WriteString("\nSkills\n")
		for _, cat := range profile.SkillCategories {
			sb.WriteString(fmt.Sprintf("%s: %s\n", cat.Name, strings.Join(cat.Skills, ", ")))
		}
	}

	return sb.String()
}
