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

// GetProfile loads a user's structured resume document.
func (s *Service) GetProfile(ctx context.Context, userId string) (*models.UserProfile, error) {
	zap.L().Debug("Querying profile", zap.String("user_id", userId))

	var document string
	var updatedAt time.Time
	err := s.db.QueryRowContext(ctx, queryGetProfile, userId).Scan(&document, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("profile for user %s: %w", userId, store.ErrNotFound)
		}
		zap.L().Error("Failed to query profile", zap.String("user_id", userId), zap.Error(err))
		return nil, fmt.Errorf("unable to query profile: %w", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal([]byte(document), &profile); err != nil {
		return nil, fmt.Errorf("unable to decode profile document: %w", err)
	}
	profile.UserId = userId
	profile.UpdatedAt = updatedAt

	return &profile, nil
}

// ReplaceProfile validates the draft and stores it as the new document.
// Validation failure leaves the stored profile unchanged.
func (s *Service) ReplaceProfile(ctx context.Context, profile *models.UserProfile) error {
	if err := profile.Validate(); err != nil {
		return err
	}
	return s.writeProfile(ctx, profile)
}

// writeProfile persists the document without validation. Used for the empty
// signup document, which legitimately fails completeness validation.
func (s *Service) writeProfile(ctx context.Context, profile *models.UserProfile) error {
	now := time.Now()
	profile.UpdatedAt = now

	document, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("unable to encode profile document: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, queryUpsertProfile, profile.UserId, string(document), now); err != nil {
		zap.L().Error("Failed to store profile", zap.String("user_id", profile.UserId), zap.Error(err))
		return fmt.Errorf("unable to store profile: %w", err)
	}

	zap.L().Info("Profile replaced",
		zap.String("user_id", profile.UserId),
		zap.Int("education_entries", len(profile.Education)),
		zap.Int("experience_entries", len(profile.Experience)))
	return nil
}

// IsProfileCompleteForAutoApply evaluates the completeness predicate over the
// stored document.
func (s *Service) IsProfileCompleteForAutoApply(ctx context.Context, userId string) (bool, error) {
	profile, err := s.GetProfile(ctx, userId)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return profile.CompleteForAutoApply(), nil
}

// GetProfileSnapshot captures the form-fill fields of the stored document.
func (s *Service) GetProfileSnapshot(ctx context.Context, userId string) (*models.ProfileSnapshot, error) {
	profile, err := s.GetProfile(ctx, userId)
	if err != nil {
		return nil, err
	}
	return profile.Snapshot(time.Now()), nil
}
