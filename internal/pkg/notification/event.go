// Package notification delivers decision emails to applicants outside the request path.
package notification

import (
	"time"

	"github.com/yigit/joblink/internal/app/models"
)

// Outcome of a recruiter decision
type Outcome string

const (
	OutcomeHire    Outcome = "hire"
	OutcomeNonHire Outcome = "non_hire"
)

// OutcomeFor maps a decision status onto a notification outcome.
// ok is false for statuses that do not notify.
func OutcomeFor(status models.ApplicationStatus) (outcome Outcome, ok bool) {
	switch status {
	case models.StatusShortlisted:
		return OutcomeHire, true
	case models.StatusRejected:
		return OutcomeNonHire, true
	default:
		return "", false
	}
}

// Event describes one decision to tell an applicant about
type Event struct {
	RecipientEmail string    `json:"recipientEmail"`
	RecipientName  string    `json:"recipientName"`
	JobID          int64     `json:"jobId"`
	JobTitle       string    `json:"jobTitle"`
	Company        string    `json:"company"`
	StudentID      int64     `json:"studentId"`
	ConversationID *int64    `json:"conversationId,omitempty"`
	Outcome        Outcome   `json:"outcome"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Notifier accepts events without blocking the caller
type Notifier interface {
	Notify(ev Event)
}
