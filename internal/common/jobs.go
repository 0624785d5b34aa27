package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

type JobFileEntry struct {
	CompanyName        string `yaml:"company_name"`
	CompanyLogoURL     string `yaml:"company_logo_url"`
	RoleTitle          string `yaml:"role_title"`
	PackageAmount      string `yaml:"package_amount"`
	PackageType        string `yaml:"package_type"`
	Domain             string `yaml:"domain"`
	LocationType       string `yaml:"location_type"`
	City               string `yaml:"city"`
	ExperienceRequired string `yaml:"experience_required"`
	Qualification      string `yaml:"qualification"`
	ShortDescription   string `yaml:"short_description"`
	FullDescription    string `yaml:"full_description"`
	ApplicationLink    string `yaml:"application_link"`
	PostedDate         string `yaml:"posted_date"`
	SourceAPI          string `yaml:"source_api"`
}

type JobsFile struct {
	Jobs []JobFileEntry `yaml:"jobs"`
}

// LoadJobsFile reads a YAML file of job listings for bulk import. Only the
// structural fields are checked here; catalog validation runs per listing
// at insert time.
func LoadJobsFile(jobsFile string) ([]JobFileEntry, error) {
	var jobsPath string
	if filepath.IsAbs(jobsFile) {
		jobsPath = jobsFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		jobsPath = filepath.Join(wd, jobsFile)
	}

	data, err := os.ReadFile(jobsPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", jobsFile, err)
	}

	var config JobsFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", jobsFile, err)
	}

	for i, job := range config.Jobs {
		if job.CompanyName == "" {
			return nil, fmt.Errorf("job at index %d missing company_name", i)
		}
		if job.RoleTitle == "" {
			return nil, fmt.Errorf("job at index %d missing role_title", i)
		}
	}

	return config.Jobs, nil
}
