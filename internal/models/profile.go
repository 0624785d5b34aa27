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

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// UserProfile is the structured resume document owned by a user. It is
// replaced as a whole on every update; there is no partial-field patch.
type UserProfile struct {
	UserId          string                `json:"user_id" validate:"required"`
	FullName        string                `json:"full_name" validate:"required,min=2,max=120"`
	Email           string                `json:"email" validate:"required,email"`
	Phone           string                `json:"phone,omitempty" validate:"omitempty,min=7,max=20"`
	LinkedinURL     string                `json:"linkedin_url,omitempty" validate:"omitempty,url"`
	GithubURL       string                `json:"github_url,omitempty" validate:"omitempty,url"`
	Location        string                `json:"location,omitempty" validate:"omitempty,max=120"`
	Headline        string                `json:"headline,omitempty" validate:"omitempty,max=300"`
	Education       []EducationEntry      `json:"education" validate:"dive"`
	Experience      []WorkExperienceEntry `json:"experience" validate:"dive"`
	SkillCategories []SkillCategory       `json:"skill_categories" validate:"dive"`
	Projects        []ProjectEntry        `json:"projects" validate:"dive"`
	Certifications  []CertificationEntry  `json:"certifications" validate:"dive"`
	UpdatedAt       time.Time             `json:"updated_at"`
}

// EducationEntry is one ordered education record
type EducationEntry struct {
	Institution string `json:"institution" validate:"required"`
	Degree      string `json:"degree" validate:"required"`
	Field       string `json:"field,omitempty"`
	StartYear   string `json:"start_year,omitempty"`
	EndYear     string `json:"end_year,omitempty"`
	Grade       string `json:"grade,omitempty"`
}

// WorkExperienceEntry is one ordered experience record. An entry is complete
// only when it carries at least one non-empty bullet.
type WorkExperienceEntry struct {
	Company   string   `json:"company" validate:"required"`
	Title     string   `json:"title" validate:"required"`
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	Bullets   []string `json:"bullets" validate:"min=1,dive,required"`
}

// SkillCategory groups ordered skills under a category name. The count field
// is derived from the skill list on serialization and is never stored, so it
// cannot drift from the list it describes.
type SkillCategory struct {
	Name   string   `json:"name" validate:"required"`
	Skills []string `json:"skills" validate:"min=1,dive,required"`
}

// MarshalJSON emits the derived count alongside the list.
func (c SkillCategory) MarshalJSON() ([]byte, error) {
	type alias SkillCategory
	return json.Marshal(struct {
		alias
		Count int `json:"count"`
	}{alias(c), len(c.Skills)})
}

// UnmarshalJSON accepts and discards any stored count.
func (c *SkillCategory) UnmarshalJSON(data []byte) error {
	type alias SkillCategory
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = SkillCategory(a)
	return nil
}

// ProjectEntry is one ordered project record
type ProjectEntry struct {
	Title   string   `json:"title" validate:"required"`
	Bullets []string `json:"bullets" validate:"min=1,dive,required"`
	Links   []string `json:"links,omitempty" validate:"omitempty,dive,url"`
}

// CertificationEntry is one ordered certification record
type CertificationEntry struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description,omitempty"`
	Issuer      string `json:"issuer,omitempty"`
	Year        string `json:"year,omitempty"`
}

// Normalize trims every string field and drops empty bullets, links and
// skills so that validation and storage see a canonical document. Optional
// fields that trim to empty become absent.
func (p *UserProfile) Normalize() {
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = strings.TrimSpace(p.Phone)
	p.LinkedinURL = strings.TrimSpace(p.LinkedinURL)
	p.GithubURL = strings.TrimSpace(p.GithubURL)
	p.Location = strings.TrimSpace(p.Location)
	p.Headline = strings.TrimSpace(p.Headline)

	for i := range p.Education {
		e := &p.Education[i]
		e.Institution = strings.TrimSpace(e.Institution)
		e.Degree = strings.TrimSpace(e.Degree)
		e.Field = strings.TrimSpace(e.Field)
		e.StartYear = strings.TrimSpace(e.StartYear)
		e.EndYear = strings.TrimSpace(e.EndYear)
		e.Grade = strings.TrimSpace(e.Grade)
	}
	for i := range p.Experience {
		w := &p.Experience[i]
		w.Company = strings.TrimSpace(w.Company)
		w.Title = strings.TrimSpace(w.Title)
		w.StartDate = strings.TrimSpace(w.StartDate)
		w.EndDate = strings.TrimSpace(w.EndDate)
		w.Bullets = trimNonEmpty(w.Bullets)
	}
	for i := range p.SkillCategories {
		c := &p.SkillCategories[i]
		c.Name = strings.TrimSpace(c.Name)
		c.Skills = trimNonEmpty(c.Skills)
	}
	for i := range p.Projects {
		pr := &p.Projects[i]
		pr.Title = strings.TrimSpace(pr.Title)
		pr.Bullets = trimNonEmpty(pr.Bullets)
		pr.Links = trimNonEmpty(pr.Links)
	}
	for i := range p.Certifications {
		ce := &p.Certifications[i]
		ce.Title = strings.TrimSpace(ce.Title)
		ce.Description = strings.TrimSpace(ce.Description)
		ce.Issuer = strings.TrimSpace(ce.Issuer)
		ce.Year = strings.TrimSpace(ce.Year)
	}
}

// Validate normalizes the document and runs whole-document validation.
// Any failure returns a ValidationErrors value with per-field messages and
// means the document must not be stored.
func (p *UserProfile) Validate() error {
	p.Normalize()
	return ValidateStruct(p)
}

// CompleteForAutoApply reports whether the profile carries every field the
// auto-apply form fill requires.
func (p *UserProfile) CompleteForAutoApply() bool {
	if p.FullName == "" || p.Email == "" || p.Phone == "" || p.Location == "" {
		return false
	}
	if len(p.Education) == 0 || len(p.Experience) == 0 {
		return false
	}
	for _, w := range p.Experience {
		if len(w.Bullets) == 0 {
			return false
		}
	}
	skills := 0
	for _, c := range p.SkillCategories {
		skills += len(c.Skills)
	}
	return skills > 0
}

// ProfileSnapshot is the flat capture of the form-fill fields taken when an
// auto application is accepted. It is stored with the log entry and never
// recomputed, so the audit trail reflects what was actually submitted.
type ProfileSnapshot struct {
	FullName    string                `json:"full_name"`
	Email       string                `json:"email"`
	Phone       string                `json:"phone"`
	LinkedinURL string                `json:"linkedin_url,omitempty"`
	GithubURL   string                `json:"github_url,omitempty"`
	Headline    string                `json:"headline,omitempty"`
	Location    string                `json:"location"`
	Education   []EducationEntry      `json:"education"`
	Experience  []WorkExperienceEntry `json:"experience"`
	Skills      []SkillCategory       `json:"skills"`
	CapturedAt  time.Time             `json:"captured_at"`
}

// Snapshot captures the form-fill fields of the profile.
func (p *UserProfile) Snapshot(now time.Time) *ProfileSnapshot {
	return &ProfileSnapshot{
		FullName:    p.FullName,
		Email:       p.Email,
		Phone:       p.Phone,
		LinkedinURL: p.LinkedinURL,
		GithubURL:   p.GithubURL,
		Headline:    p.Headline,
		Location:    p.Location,
		Education:   p.Education,
		Experience:  p.Experience,
		Skills:      p.SkillCategories,
		CapturedAt:  now,
	}
}

// EmptyProfile returns the document created at signup.
func EmptyProfile(userId, name, email string) *UserProfile {
	return &UserProfile{
		UserId:   userId,
		FullName: name,
		Email:    email,
	}
}

func trimNonEmpty(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// String implements fmt.Stringer without dumping the full document into logs.
func (p *UserProfile) String() string {
	return fmt.Sprintf("profile(user=%s, education=%d, experience=%d, skill_categories=%d)",
		p.UserId, len(p.Education), len(p.Experience), len(p.SkillCategories))
}
