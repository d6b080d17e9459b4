package dto

import (
	"time"

	"github.com/yigit/joblink/internal/app/models"
)

// CreateJobRequest represents a new job posting
type CreateJobRequest struct {
	Title          string                `json:"title" binding:"required,max=200" example:"Backend Intern"`
	Company        string                `json:"company" binding:"required,max=200" example:"Acme Corp"`
	Industry       string                `json:"industry" binding:"max=100" example:"Software"`
	Location       string                `json:"location" binding:"max=100" example:"Istanbul"`
	EmploymentType models.EmploymentType `json:"employmentType" binding:"required,oneof=FULL_TIME PART_TIME INTERNSHIP CONTRACT" example:"INTERNSHIP"`
	SalaryMin      *int64                `json:"salaryMin,omitempty" binding:"omitempty,gte=0"`
	SalaryMax      *int64                `json:"salaryMax,omitempty" binding:"omitempty,gte=0"`
	Description    string                `json:"description" binding:"max=10000"`
	Requirements   []string              `json:"requirements" example:"python,sql"`
}

// JobFilterRequest holds the query parameters of the job listing
type JobFilterRequest struct {
	Industry       string `form:"industry"`
	Location       string `form:"location"`
	EmploymentType string `form:"employmentType" binding:"omitempty,oneof=FULL_TIME PART_TIME INTERNSHIP CONTRACT"`
	Search         string `form:"q"`
	Page           int    `form:"page,default=1" binding:"min=1"`
	Size           int    `form:"size,default=10" binding:"min=1,max=100"`
}

// JobResponse represents a job posting
type JobResponse struct {
	ID             int64                 `json:"id"`
	RecruiterID    int64                 `json:"recruiterId"`
	Title          string                `json:"title"`
	Company        string                `json:"company"`
	Industry       string                `json:"industry"`
	Location       string                `json:"location"`
	EmploymentType models.EmploymentType `json:"employmentType"`
	SalaryMin      *int64                `json:"salaryMin,omitempty"`
	SalaryMax      *int64                `json:"salaryMax,omitempty"`
	Description    string                `json:"description"`
	Requirements   []string              `json:"requirements"`
	CreatedAt      time.Time             `json:"createdAt"`
}

// NewJobResponse maps a posting onto its public representation
func NewJobResponse(j *models.JobPosting) JobResponse {
	reqs := j.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	return JobResponse{
		ID:             j.ID,
		RecruiterID:    j.RecruiterID,
		Title:          j.Title,
		Company:        j.Company,
		Industry:       j.Industry,
		Location:       j.Location,
		EmploymentType: j.EmploymentType,
		SalaryMin:      j.SalaryMin,
		SalaryMax:      j.SalaryMax,
		Description:    j.Description,
		Requirements:   reqs,
		CreatedAt:      j.CreatedAt,
	}
}

// NewJobResponses maps a slice of postings
func NewJobResponses(jobs []*models.JobPosting) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobResponse(j))
	}
	return out
}
