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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"jobpilot-go/internal/models"
	"jobpilot-go/internal/store"

	"go.uber.org/zap"
)

// InsertOptimizedResume records a new optimization artifact. Rows are
// immutable once written; there is no update path.
func (s *Service) InsertOptimizedResume(ctx context.Context, resume *models.OptimizedResume) error {
	zap.L().Info("Inserting optimized resume",
		zap.String("id", resume.Id),
		zap.String("user_id", resume.UserId),
		zap.String("job_id", resume.JobId),
		zap.Int("score", resume.Score))

	_, err := s.db.ExecContext(ctx, queryInsertOptimizedResume,
		resume.Id, resume.UserId, resume.JobId, resume.Content,
		resume.PdfURL, resume.DocxURL, resume.Score)
	if err != nil {
		zap.L().Error("Failed to insert optimized resume", zap.String("id", resume.Id), zap.Error(err))
		return fmt.Errorf("unable to insert optimized resume: %w", err)
	}

	return nil
}

func (s *Service) GetOptimizedResume(ctx context.Context, resumeId string) (*models.OptimizedResume, error) {
	zap.L().Debug("Querying optimized resume", zap.String("resume_id", resumeId))

	var resume models.OptimizedResume
	err := s.db.QueryRowContext(ctx, queryGetOptimizedResume, resumeId).Scan(
		&resume.Id, &resume.UserId, &resume.JobId, &resume.Content,
		&resume.PdfURL, &resume.DocxURL, &resume.Score, &resume.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("optimized resume %s: %w", resumeId, store.ErrNotFound)
		}
		zap.L().Error("Failed to query optimized resume", zap.String("resume_id", resumeId), zap.Error(err))
		return nil, fmt.Errorf("unable to query optimized resume: %w", err)
	}

	return &resume, nil
}

func (s *Service) ListOptimizedResumes(ctx context.Context, userId string, limit, offset int) ([]models.OptimizedResume, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, queryListOptimizedResumes, userId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("unable to list optimized resumes: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var resumes []models.OptimizedResume
	for rows.Next() {
		var resume models.OptimizedResume
		err := rows.Scan(&resume.Id, &resume.UserId, &resume.JobId, &resume.Content,
			&resume.PdfURL, &resume.DocxURL, &resume.Score, &resume.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan optimized resume: %w", err)
		}
		resumes = append(resumes, resume)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating optimized resume rows: %w", err)
	}

	return resumes, nil
}
