package models

import (
	"strings"
	"time"
)

// ApplicationStatus is the closed set of states an application moves through
type ApplicationStatus string

const (
	StatusApplied     ApplicationStatus = "APPLIED"
	StatusUnderReview ApplicationStatus = "UNDER_REVIEW"
	StatusShortlisted ApplicationStatus = "SHORTLISTED" // hire decision
	StatusRejected    ApplicationStatus = "REJECTED"
)

// statusAliases maps accepted spellings onto canonical statuses.
// "shortlisted for in-person interview" is the label older clients send as the state value.
var statusAliases = map[string]ApplicationStatus{
	"applied":                             StatusApplied,
	"under_review":                        StatusUnderReview,
	"under review":                        StatusUnderReview,
	"underreview":                         StatusUnderReview,
	"in_review":                           StatusUnderReview,
	"shortlisted":                         StatusShortlisted,
	"shortlisted for in-person interview": StatusShortlisted,
	"rejected":                            StatusRejected,
}

// ParseApplicationStatus resolves s to a canonical status, case-insensitively
func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	status, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]
	return status, ok
}

// IsTerminal reports whether no further transitions are possible
func (s ApplicationStatus) IsTerminal() bool {
	return s == StatusShortlisted || s == StatusRejected
}

// IsDecision reports whether the status is a recruiter decision the student is notified about
func (s ApplicationStatus) IsDecision() bool {
	return s.IsTerminal()
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Re-applying the current status is always allowed and treated as idempotent.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusApplied:
		return next == StatusUnderReview || next == StatusShortlisted || next == StatusRejected
	case StatusUnderReview:
		return next == StatusShortlisted || next == StatusRejected
	default:
		return false
	}
}

// Application is a student's bid for one job; at most one per (job, student)
type Application struct {
	ID        int64             `json:"id" db:"id"`
	JobID     int64             `json:"jobId" db:"job_id"`
	StudentID int64             `json:"studentId" db:"student_id"`
	Status    ApplicationStatus `json:"status" db:"status"`
	Score     int               `json:"score" db:"score"`
	AppliedAt time.Time         `json:"appliedAt" db:"applied_at"`
	UpdatedAt time.Time         `json:"updatedAt" db:"updated_at"`
}

// Applicant is an application joined with the scoring-relevant student fields
type Applicant struct {
	Application
	StudentName  string   `json:"studentName"`
	StudentEmail string   `json:"studentEmail"`
	CGPA         *float64 `json:"cgpa,omitempty"`
	ResumeURL    *string  `json:"resumeUrl,omitempty"`
}

// AcademicFigure returns the CGPA or zero when absent
func (a *Applicant) AcademicFigure() float64 {
	if a.CGPA == nil {
		return 0
	}
	return *a.CGPA
}

// StudentApplication is a student's application together with the job it targets
type StudentApplication struct {
	Application
	Job JobPosting `json:"job"`
}
