package models

import (
	"strings"
	"time"
)

// EmploymentType of a job posting
type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "FULL_TIME"
	EmploymentPartTime   EmploymentType = "PART_TIME"
	EmploymentInternship EmploymentType = "INTERNSHIP"
	EmploymentContract   EmploymentType = "CONTRACT"
)

// JobPosting is owned by exactly one recruiter
type JobPosting struct {
	ID             int64          `json:"id" db:"id"`
	RecruiterID    int64          `json:"recruiterId" db:"recruiter_id"`
	Title          string         `json:"title" db:"title"`
	Company        string         `json:"company" db:"company"`
	Industry       string         `json:"industry" db:"industry"`
	Location       string         `json:"location" db:"location"`
	EmploymentType EmploymentType `json:"employmentType" db:"employment_type"`
	SalaryMin      *int64         `json:"salaryMin,omitempty" db:"salary_min"`
	SalaryMax      *int64         `json:"salaryMax,omitempty" db:"salary_max"`
	Description    string         `json:"description" db:"description"`
	Requirements   []string       `json:"requirements" db:"requirements"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
}

// OwnedBy reports whether the recruiter owns the posting
func (j *JobPosting) OwnedBy(recruiterID int64) bool {
	return j.RecruiterID == recruiterID
}

// NormalizeRequirements lower-cases and trims keywords, dropping blanks and duplicates
// while keeping the first-seen order.
func NormalizeRequirements(raw []string) []string {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		k := strings.ToLower(strings.TrimSpace(r))
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}
