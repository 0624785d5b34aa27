package models

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func validProfile() *UserProfile {
	return &UserProfile{
		UserId:   "user1",
		FullName: "Test User",
		Email:    "test@example.com",
		Phone:    "9999999999",
		Location: "Bengaluru",
		Education: []EducationEntry{
			{Institution: "IIT Madras", Degree: "B.Tech"},
		},
		Experience: []WorkExperienceEntry{
			{Company: "Acme Corp", Title: "Engineer", Bullets: []string{"Built services"}},
		},
		SkillCategories: []SkillCategory{
			{Name: "Languages", Skills: []string{"Go"}},
		},
	}
}

func TestProfileValidate_FieldErrors(t *testing.T) {
	profile := validProfile()
	profile.Email = "not-an-email"
	profile.Experience[0].Bullets = nil

	err := profile.Validate()
	var fieldErrs ValidationErrors
	if !errors.As(err, &fieldErrs) {
		t.Fatalf("Expected ValidationErrors, got %v", err)
	}

	fields := make(map[string]bool)
	for _, fe := range fieldErrs {
		fields[fe.Field] = true
	}
	if !fields["Email"] {
		t.Errorf("Expected email failure, got %+v", fieldErrs)
	}
	if !fields["Experience[0].Bullets"] {
		t.Errorf("Expected bullets failure, got %+v", fieldErrs)
	}
}

func TestProfileNormalize(t *testing.T) {
	profile := validProfile()
	profile.FullName = "  Test User  "
	profile.Headline = " Backend engineer "
	profile.Experience[0].Bullets = []string{" Built services ", "", "  "}
	profile.SkillCategories[0].Skills = []string{" Go ", ""}

	profile.Normalize()

	if profile.FullName != "Test User" {
		t.Errorf("Expected trimmed name, got %q", profile.FullName)
	}
	if profile.Headline != "Backend engineer" {
		t.Errorf("Expected trimmed headline, got %q", profile.Headline)
	}
	if len(profile.Experience[0].Bullets) != 1 || profile.Experience[0].Bullets[0] != "Built services" {
		t.Errorf("Expected empty bullets dropped, got %v", profile.Experience[0].Bullets)
	}
	if len(profile.SkillCategories[0].Skills) != 1 {
		t.Errorf("Expected empty skills dropped, got %v", profile.SkillCategories[0].Skills)
	}
}

func TestSkillCategory_CountIsDerived(t *testing.T) {
	category := SkillCategory{Name: "Languages", Skills: []string{"Go", "Python"}}

	data, err := json.Marshal(category)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"count":2`) {
		t.Errorf("Expected derived count in output, got %s", data)
	}

	// A stored count is discarded; only the list decides.
	var parsed SkillCategory
	if err := json.Unmarshal([]byte(`{"name":"Languages","skills":["Go"],"count":99}`), &parsed); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	out, err := json.Marshal(parsed)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(out), `"count":1`) {
		t.Errorf("Expected count recomputed from skills, got %s", out)
	}
}

func TestCompleteForAutoApply(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(p *UserProfile)
		complete bool
	}{
		{"complete", func(p *UserProfile) {}, true},
		{"missing phone", func(p *UserProfile) { p.Phone = "" }, false},
		{"missing location", func(p *UserProfile) { p.Location = "" }, false},
		{"no education", func(p *UserProfile) { p.Education = nil }, false},
		{"no experience", func(p *UserProfile) { p.Experience = nil }, false},
		{"experience without bullets", func(p *UserProfile) { p.Experience[0].Bullets = nil }, false},
		{"no skills", func(p *UserProfile) { p.SkillCategories = nil }, false},
		{"empty skill category", func(p *UserProfile) { p.SkillCategories[0].Skills = nil }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			profile := validProfile()
			tc.mutate(profile)
			if got := profile.CompleteForAutoApply(); got != tc.complete {
				t.Errorf("Expected complete=%v, got %v", tc.complete, got)
			}
		})
	}
}

func TestProfileSnapshot(t *testing.T) {
	profile := validProfile()
	now := time.Now()
	snapshot := profile.Snapshot(now)

	if snapshot.FullName != profile.FullName || snapshot.Phone != profile.Phone {
		t.Errorf("Snapshot did not capture identity fields: %+v", snapshot)
	}
	if len(snapshot.Skills) != len(profile.SkillCategories) {
		t.Errorf("Snapshot did not capture skills: %+v", snapshot.Skills)
	}
	if !snapshot.CapturedAt.Equal(now) {
		t.Errorf("Expected captured_at %v, got %v", now, snapshot.CapturedAt)
	}
}
