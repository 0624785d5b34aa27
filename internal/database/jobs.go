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

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func (s *Service) InsertJobListing(ctx context.Context, listing *models.JobListing) error {
	zap.L().Info("Inserting job listing",
		zap.String("id", listing.Id),
		zap.String("company", listing.CompanyName),
		zap.String("role", listing.RoleTitle))

	_, err := s.db.ExecContext(ctx, queryInsertJobListing,
		listing.Id, listing.CompanyName, listing.CompanyLogoURL, listing.RoleTitle,
		listing.PackageAmount.String(), listing.PackageType, listing.Domain,
		listing.LocationType, listing.City, listing.ExperienceRequired,
		listing.Qualification, listing.ShortDescription, listing.FullDescription,
		listing.ApplicationLink, listing.PostedDate, listing.SourceAPI, listing.IsActive)
	if err != nil {
		zap.L().Error("Failed to insert job listing", zap.String("id", listing.Id), zap.Error(err))
		return fmt.Errorf("unable to insert job listing: %w", err)
	}

	return nil
}

// GetJobListing returns a listing by id regardless of active flag; catalog
// visibility rules belong to the caller.
func (s *Service) GetJobListing(ctx context.Context, jobId string) (*models.JobListing, error) {
	zap.L().Debug("Querying job listing", zap.String("job_id", jobId))

	row := s.db.QueryRowContext(ctx, queryGetJobListing, jobId)
	listing, err := scanJobListing(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job listing %s: %w", jobId, store.ErrNotFound)
		}
		zap.L().Error("Failed to query job listing", zap.String("job_id", jobId), zap.Error(err))
		return nil, fmt.Errorf("unable to query job listing: %w", err)
	}

	return listing, nil
}

func (s *Service) ListJobListings(ctx context.Context, filter models.ListingFilter) ([]models.JobListing, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, queryListJobListings,
		filter.Domain, filter.Domain, filter.LocationType, filter.LocationType, limit, filter.Offset)
	if err != nil {
		zap.L().Error("Failed to list job listings", zap.Error(err))
		return nil, fmt.Errorf("unable to list job listings: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var listings []models.JobListing
	for rows.Next() {
		listing, err := scanJobListing(rows)
		if err != nil {
			return nil, fmt.Errorf("unable to scan job listing: %w", err)
		}
		listings = append(listings, *listing)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating job listing rows: %w", err)
	}

	zap.L().Debug("Retrieved job listings", zap.Int("count", len(listings)))
	return listings, nil
}

func (s *Service) DeactivateJobListing(ctx context.Context, jobId string) error {
	result, err := s.db.ExecContext(ctx, queryDeactivateJobListing, jobId)
	if err != nil {
		return fmt.Errorf("unable to deactivate job listing: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("unable to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("job listing %s: %w", jobId, store.ErrNotFound)
	}

	zap.L().Info("Job listing deactivated", zap.String("job_id", jobId))
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJobListing(row rowScanner) (*models.JobListing, error) {
	var listing models.JobListing
	var packageAmountStr string
	err := row.Scan(&listing.Id, &listing.CompanyName, &listing.CompanyLogoURL,
		&listing.RoleTitle, &packageAmountStr, &listing.PackageType, &listing.Domain,
		&listing.LocationType, &listing.City, &listing.ExperienceRequired,
		&listing.Qualification, &listing.ShortDescription, &listing.FullDescription,
		&listing.ApplicationLink, &listing.PostedDate, &listing.SourceAPI,
		&listing.IsActive, &listing.CreatedAt)
	if err != nil {
		return nil, err
	}

	listing.PackageAmount, err = decimal.NewFromString(packageAmountStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse package amount %q: %w", packageAmountStr, err)
	}

	return &listing, nil
}
