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
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobpilot-go/internal/models"
	"jobpilot-go/internal/store"

	"go.uber.org/zap"
)

// InsertApplicationLog appends one application record. The log is
// append-only; rows are never deleted.
func (s *Service) InsertApplicationLog(ctx context.Context, entry *models.ApplicationLog) error {
	zap.L().Info("Inserting application log",
		zap.String("id", entry.Id),
		zap.String("user_id", entry.UserId),
		zap.String("job_id", entry.JobId),
		zap.String("mode", entry.Mode),
		zap.String("status", entry.Status))

	var snapshot sql.NullString
	if entry.Snapshot != nil {
		encoded, err := json.Marshal(entry.Snapshot)
		if err != nil {
			return fmt.Errorf("unable to encode profile snapshot: %w", err)
		}
		snapshot = sql.NullString{String: string(encoded), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, queryInsertApplicationLog,
		entry.Id, entry.UserId, entry.JobId, entry.ResumeId, entry.Mode, entry.Status,
		entry.RedirectURL, entry.ScreenshotURL, entry.ErrorMessage, entry.FallbackURL,
		snapshot, entry.AppliedAt, entry.UpdatedAt)
	if err != nil {
		zap.L().Error("Failed to insert application log", zap.String("id", entry.Id), zap.Error(err))
		return fmt.Errorf("unable to insert application log: %w", err)
	}

	return nil
}

func (s *Service) GetApplicationLog(ctx context.Context, logId string) (*models.ApplicationLog, error) {
	row := s.db.QueryRowContext(ctx, queryGetApplicationLog, logId)
	entry, err := scanApplicationLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("application log %s: %w", logId, store.ErrNotFound)
		}
		return nil, fmt.Errorf("unable to query application log: %w", err)
	}
	return entry, nil
}

func (s *Service) ListApplicationLogs(ctx context.Context, userId string, limit, offset int) ([]models.ApplicationLog, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, queryListApplicationLogs, userId, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("unable to list application logs: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var entries []models.ApplicationLog
	for rows.Next() {
		entry, err := scanApplicationLog(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan application log: %w", err)
		}
		entries = append(entries, *entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating application log rows: %w", err)
	}

	return entries, nil
}

// CompleteApplicationLog moves a pending auto application to its terminal
// status. The WHERE clause requires the row to still be pending: a second
// transition, or a transition against an already-terminal row, affects zero
// rows and surfaces ErrConcurrentModification.
func (s *Service) CompleteApplicationLog(ctx context.Context, params store.CompleteApplicationParams) error {
	if params.Status != models.ApplicationStatusSubmitted && params.Status != models.ApplicationStatusFailed {
		return fmt.Errorf("invalid terminal status %q", params.Status)
	}

	result, err := s.db.ExecContext(ctx, queryCompleteApplicationLog,
		params.Status, params.ScreenshotURL, params.ErrorMessage, params.FallbackURL,
		time.Now(), params.LogId)
	if err != nil {
		zap.L().Error("Failed to complete application log", zap.String("log_id", params.LogId), zap.Error(err))
		return fmt.Errorf("unable to complete application log: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("application log %s is not pending: %w", params.LogId, store.ErrConcurrentModification)
	}

	zap.L().Info("Application log completed",
		zap.String("log_id", params.LogId),
		zap.String("status", params.Status))
	return nil
}

func scanApplicationLog(row rowScanner) (*models.ApplicationLog, error) {
	var entry models.ApplicationLog
	var snapshot sql.NullString
	err := row.Scan(&entry.Id, &entry.UserId, &entry.JobId, &entry.ResumeId,
		&entry.Mode, &entry.Status, &entry.RedirectURL, &entry.ScreenshotURL,
		&entry.ErrorMessage, &entry.FallbackURL, &snapshot, &entry.AppliedAt, &entry.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if snapshot.Valid && snapshot.String != "" {
		var decoded models.ProfileSnapshot
		if err := json.Unmarshal([]byte(snapshot.String), &decoded); err != nil {
			return nil, fmt.Errorf("unable to decode profile snapshot: %w", err)
		}
		entry.Snapshot = &decoded
	}

	return &entry, nil
}
