package dto

import (
	"time"

	"github.com/yigit/joblink/internal/app/models"
)

// ApplyResponse is returned after a successful application
type ApplyResponse struct {
	JobID     int64                    `json:"jobId"`
	StudentID int64                    `json:"studentId"`
	Status    models.ApplicationStatus `json:"status" example:"APPLIED"`
	Score     int                      `json:"score" example:"75"`
	AppliedAt time.Time                `json:"appliedAt"`
}

// NewApplyResponse maps an application onto the apply result
func NewApplyResponse(a *models.Application) ApplyResponse {
	return ApplyResponse{
		JobID:     a.JobID,
		StudentID: a.StudentID,
		Status:    a.Status,
		Score:     a.Score,
		AppliedAt: a.AppliedAt,
	}
}

// UpdateStatusRequest carries the target status of a transition
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required" example:"SHORTLISTED"`
}

// StatusResponse is returned after a status transition
type StatusResponse struct {
	JobID          int64                    `json:"jobId"`
	StudentID      int64                    `json:"studentId"`
	Status         models.ApplicationStatus `json:"status" example:"SHORTLISTED"`
	ConversationID *int64                   `json:"conversationId,omitempty"`
}

// ApplicantResponse is one row of a job's applicant list
type ApplicantResponse struct {
	StudentID    int64                    `json:"studentId"`
	StudentName  string                   `json:"studentName"`
	StudentEmail string                   `json:"studentEmail"`
	Status       models.ApplicationStatus `json:"status"`
	Score        int                      `json:"score"`
	CGPA         *float64                 `json:"cgpa,omitempty"`
	ResumeURL    *string                  `json:"resumeUrl,omitempty"`
	AppliedAt    time.Time                `json:"appliedAt"`
}

// NewApplicantResponses maps applicants keeping their order
func NewApplicantResponses(applicants []*models.Applicant) []ApplicantResponse {
	out := make([]ApplicantResponse, 0, len(applicants))
	for _, a := range applicants {
		out = append(out, ApplicantResponse{
			StudentID:    a.StudentID,
			StudentName:  a.StudentName,
			StudentEmail: a.StudentEmail,
			Status:       a.Status,
			Score:        a.Score,
			CGPA:         a.CGPA,
			ResumeURL:    a.ResumeURL,
			AppliedAt:    a.AppliedAt,
		})
	}
	return out
}

// MyApplicationResponse is a student's view of one of their applications
type MyApplicationResponse struct {
	Job       JobResponse              `json:"job"`
	Status    models.ApplicationStatus `json:"status"`
	Score     int                      `json:"score"`
	AppliedAt time.Time                `json:"appliedAt"`
}
