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

package models

// AutoApplyRequest is the body of POST /auto-apply.
type AutoApplyRequest struct {
	JobId             string `json:"jobId" binding:"required"`
	OptimizedResumeId string `json:"optimizedResumeId" binding:"required"`
}

// AutoApplyResult is returned by the auto-apply workflow. On failure the
// fallback URL carries the job's original application link so the user can
// still apply manually.
type AutoApplyResult struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	ApplicationId string `json:"applicationId,omitempty"`
	Status        string `json:"status"`
	ScreenshotURL string `json:"screenshotUrl,omitempty"`
	ResumeURL     string `json:"resumeUrl,omitempty"`
	FallbackURL   string `json:"fallbackUrl,omitempty"`
	Error         string `json:"error,omitempty"`
}

// ManualApplyRequest is the body of POST /applications/manual.
type ManualApplyRequest struct {
	JobId       string `json:"job_id" binding:"required"`
	ResumeId    string `json:"resume_id" binding:"required"`
	RedirectURL string `json:"redirect_url" binding:"required"`
}

// OptimizeResumeRequest is the body of POST /resumes/optimize.
type OptimizeResumeRequest struct {
	JobId      string `json:"job_id" binding:"required"`
	ResumeText string `json:"resume_text"`
}

// RedemptionRequest is the body of POST /wallet/redemptions.
type RedemptionRequest struct {
	Amount  string            `json:"amount" binding:"required"`
	Method  string            `json:"method" binding:"required"`
	Details RedemptionDetails `json:"details"`
}

// JobCreationRequest is the admin intake payload for a new listing.
type JobCreationRequest struct {
	CompanyName        string `json:"company_name" binding:"required"`
	CompanyLogoURL     string `json:"company_logo_url"`
	RoleTitle          string `json:"role_title" binding:"required"`
	PackageAmount      string `json:"package_amount"`
	PackageType        string `json:"package_type"`
	Domain             string `json:"domain" binding:"required"`
	LocationType       string `json:"location_type" binding:"required"`
	City               string `json:"city"`
	ExperienceRequired string `json:"experience_required" binding:"required"`
	Qualification      string `json:"qualification" binding:"required"`
	ShortDescription   string `json:"short_description" binding:"required"`
	FullDescription    string `json:"full_description" binding:"required"`
	ApplicationLink    string `json:"application_link" binding:"required"`
	IsActive           *bool  `json:"is_active"`
}

// ListingFilter narrows catalog reads. Zero values mean "no filter".
type ListingFilter struct {
	Domain       string
	LocationType string
	Limit        int
	Offset       int
}
