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

package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"jobpilot-go/internal/models"
	"jobpilot-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// SourceAdmin marks listings created through the admin intake endpoint.
	SourceAdmin = "admin"

	minShortDescription = 10
	minFullDescription  = 50
)

// Service owns the job catalog: admin intake, bulk import, and the public
// read surface.
type Service struct {
	db store.Store
}

func NewService(db store.Store) *Service {
	return &Service{db: db}
}

// CreateListing validates and stores a listing from the admin intake. The
// posted date defaults to now and the source marker records the intake path.
func (s *Service) CreateListing(ctx context.Context, req models.JobCreationRequest) (*models.JobListing, error) {
	return s.createListing(ctx, req, SourceAdmin, time.Now())
}

// ImportListing stores a listing from a bulk import source, preserving the
// source marker and posted date the feed reported.
func (s *Service) ImportListing(ctx context.Context, req models.JobCreationRequest, sourceAPI string, postedDate time.Time) (*models.JobListing, error) {
	if sourceAPI == "" {
		sourceAPI = "import"
	}
	if postedDate.IsZero() {
		postedDate = time.Now()
	}
	return s.createListing(ctx, req, sourceAPI, postedDate)
}

func (s *Service) createListing(ctx context.Context, req models.JobCreationRequest, sourceAPI string, postedDate time.Time) (*models.JobListing, error) {
	listing, err := buildListing(req, sourceAPI, postedDate)
	if err != nil {
		return nil, err
	}

	if err := s.db.InsertJobListing(ctx, listing); err != nil {
		return nil, err
	}

	zap.L().Info("Job listing created",
		zap.String("job_id", listing.Id),
		zap.String("company", listing.CompanyName),
		zap.String("role", listing.RoleTitle),
		zap.String("source", listing.SourceAPI))
	return listing, nil
}

// Listings returns the public catalog page: active listings only, newest
// posted first.
func (s *Service) Listings(ctx context.Context, filter models.ListingFilter) ([]models.JobListing, error) {
	if filter.LocationType != "" {
		normalized, err := normalizeLocationType(filter.LocationType)
		if err != nil {
			return nil, err
		}
		filter.LocationType = normalized
	}
	return s.db.ListJobListings(ctx, filter)
}

// Listing returns one listing for public detail views. Deactivated listings
// are invisible here even though the row survives for application history.
func (s *Service) Listing(ctx context.Context, jobId string) (*models.JobListing, error) {
	listing, err := s.db.GetJobListing(ctx, jobId)
	if err != nil {
		return nil, err
	}
	if !listing.IsActive {
		return nil, fmt.Errorf("job listing %s is no longer active: %w", jobId, store.ErrNotFound)
	}
	return listing, nil
}

// Deactivate removes a listing from the catalog without deleting the row, so
// existing application logs keep a valid job reference.
func (s *Service) Deactivate(ctx context.Context, jobId string) error {
	if err := s.db.DeactivateJobListing(ctx, jobId); err != nil {
		return err
	}
	zap.L().Info("Job listing deactivated", zap.String("job_id", jobId))
	return nil
}

func buildListing(req models.JobCreationRequest, sourceAPI string, postedDate time.Time) (*models.JobListing, error) {
	if err := models.ValidateStruct(req); err != nil {
		return nil, err
	}

	locationType, err := normalizeLocationType(req.LocationType)
	if err != nil {
		return nil, err
	}

	city := strings.TrimSpace(req.City)
	if locationType == models.LocationTypeRemote {
		// Remote listings never carry a city, whatever the intake sent.
		city = ""
	} else if city == "" {
		return nil, models.NewFieldError("city", "required for onsite and hybrid listings")
	}

	if len(strings.TrimSpace(req.ShortDescription)) < minShortDescription {
		return nil, models.NewFieldError("short_description",
			fmt.Sprintf("must be at least %d characters", minShortDescription))
	}
	if len(strings.TrimSpace(req.FullDescription)) < minFullDescription {
		return nil, models.NewFieldError("full_description",
			fmt.Sprintf("must be at least %d characters", minFullDescription))
	}

	packageAmount := decimal.Zero
	packageType := strings.TrimSpace(req.PackageType)
	if strings.TrimSpace(req.PackageAmount) != "" {
		packageAmount, err = decimal.NewFromString(strings.TrimSpace(req.PackageAmount))
		if err != nil || !packageAmount.IsPositive() {
			return nil, models.NewFieldError("package_amount", "must be a positive number")
		}
		if packageType == "" {
			return nil, models.NewFieldError("package_type", "required when package_amount is set")
		}
		switch packageType {
		case models.PackageTypeCTC, models.PackageTypeStipend, models.PackageTypeHourly:
		default:
			return nil, models.NewFieldError("package_type",
				fmt.Sprintf("must be one of: %s, %s, %s",
					models.PackageTypeCTC, models.PackageTypeStipend, models.PackageTypeHourly))
		}
	}

	if err := checkOptionalURL("company_logo_url", req.CompanyLogoURL); err != nil {
		return nil, err
	}
	// The application link doubles as the auto-apply fallback URL, so it is
	// required and must parse.
	if strings.TrimSpace(req.ApplicationLink) == "" {
		return nil, models.NewFieldError("application_link", "field is required")
	}
	if err := checkOptionalURL("application_link", req.ApplicationLink); err != nil {
		return nil, err
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	return &models.JobListing{
		Id:                 uuid.New().String(),
		CompanyName:        strings.TrimSpace(req.CompanyName),
		CompanyLogoURL:     strings.TrimSpace(req.CompanyLogoURL),
		RoleTitle:          strings.TrimSpace(req.RoleTitle),
		PackageAmount:      packageAmount,
		PackageType:        packageType,
		Domain:             strings.TrimSpace(req.Domain),
		LocationType:       locationType,
		City:               city,
		ExperienceRequired: strings.TrimSpace(req.ExperienceRequired),
		Qualification:      strings.TrimSpace(req.Qualification),
		ShortDescription:   strings.TrimSpace(req.ShortDescription),
		FullDescription:    strings.TrimSpace(req.FullDescription),
		ApplicationLink:    strings.TrimSpace(req.ApplicationLink),
		PostedDate:         postedDate,
		SourceAPI:          sourceAPI,
		IsActive:           isActive,
	}, nil
}

func normalizeLocationType(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "remote":
		return models.LocationTypeRemote, nil
	case "onsite", "on-site":
		return models.LocationTypeOnsite, nil
	case "hybrid":
		return models.LocationTypeHybrid, nil
	default:
		return "", models.NewFieldError("location_type",
			fmt.Sprintf("must be one of: %s, %s, %s",
				models.LocationTypeRemote, models.LocationTypeOnsite, models.LocationTypeHybrid))
	}
}

func checkOptionalURL(field, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := url.Parse(value)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return models.NewFieldError(field, "must be a well-formed http(s) URL")
	}
	return nil
}
