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

package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"jobpilot-go/internal/catalog"
	"jobpilot-go/internal/common"
	"jobpilot-go/internal/config"
	"jobpilot-go/internal/models"

	"go.uber.org/zap"
)

type importStats struct {
	imported int
	failed   []string
}

func toCreationRequest(entry common.JobFileEntry) models.JobCreationRequest {
	return models.JobCreationRequest{
		CompanyName:        entry.CompanyName,
		CompanyLogoURL:     entry.CompanyLogoURL,
		RoleTitle:          entry.RoleTitle,
		PackageAmount:      entry.PackageAmount,
		PackageType:        entry.PackageType,
		Domain:             entry.Domain,
		LocationType:       entry.LocationType,
		City:               entry.City,
		ExperienceRequired: entry.ExperienceRequired,
		Qualification:      entry.Qualification,
		ShortDescription:   entry.ShortDescription,
		FullDescription:    entry.FullDescription,
		ApplicationLink:    entry.ApplicationLink,
	}
}

func parsePostedDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	zap.L().Warn("Unparseable posted_date, defaulting to now", zap.String("raw", raw))
	return time.Time{}
}

func importJobs(ctx context.Context, catalogService *catalog.Service, entries []common.JobFileEntry) importStats {
	stats := importStats{}

	for i, entry := range entries {
		listing, err := catalogService.ImportListing(ctx, toCreationRequest(entry),
			entry.SourceAPI, parsePostedDate(entry.PostedDate))
		if err != nil {
			zap.L().Error("Failed to import job",
				zap.Int("index", i),
				zap.String("company", entry.CompanyName),
				zap.String("role", entry.RoleTitle),
				zap.Error(err))
			stats.failed = append(stats.failed, fmt.Sprintf("%s/%s", entry.CompanyName, entry.RoleTitle))
			fmt.Printf("✗ %s — %s: %v\n", entry.CompanyName, entry.RoleTitle, err)
			continue
		}

		stats.imported++
		fmt.Printf("✓ %s — %s (%s)\n", listing.CompanyName, listing.RoleTitle, listing.Id)
	}

	return stats
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	fileFlag := flag.String("file", "jobs.yaml", "YAML file of job listings to import")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Loading jobs file", zap.String("file", *fileFlag))
	entries, err := common.LoadJobsFile(*fileFlag)
	if err != nil {
		logger.Fatal("Failed to load jobs file", zap.Error(err))
	}
	logger.Info("Jobs file loaded", zap.Int("count", len(entries)))

	dbService, err := common.InitializeDatabaseOnly(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer dbService.Close()

	catalogService := catalog.NewService(dbService)

	common.PrintHeader("JOB CATALOG IMPORT", common.DefaultWidth)
	stats := importJobs(ctx, catalogService, entries)

	summary := fmt.Sprintf("SUMMARY: %d imported, %d failed", stats.imported, len(stats.failed))
	common.PrintFooter(summary, common.DefaultWidth)

	if len(stats.failed) > 0 {
		logger.Warn("Import completed with failures",
			zap.Int("imported", stats.imported),
			zap.Int("failed", len(stats.failed)),
			zap.String("failed_jobs", strings.Join(stats.failed, ", ")))
		return
	}
	logger.Info("Import completed successfully", zap.Int("imported", stats.imported))
}
