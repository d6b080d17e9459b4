package models

import "time"

// SenderRole identifies which side of a conversation authored a message
type SenderRole string

const (
	SenderStudent   SenderRole = "student"
	SenderRecruiter SenderRole = "recruiter"
)

// SenderRoleFor maps a user role onto a conversation side
func SenderRoleFor(role RoleType) (SenderRole, bool) {
	switch role {
	case RoleStudent:
		return SenderStudent, true
	case RoleRecruiter:
		return SenderRecruiter, true
	default:
		return "", false
	}
}

// Conversation is the single channel between a student and a recruiter for one job
type Conversation struct {
	ID          int64     `json:"id" db:"id"`
	StudentID   int64     `json:"studentId" db:"student_id"`
	RecruiterID int64     `json:"recruiterId" db:"recruiter_id"`
	JobID       int64     `json:"jobId" db:"job_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`

	Messages []Message `json:"messages,omitempty"`
}

// HasParticipant reports whether userID takes part in the conversation on the given side
func (c *Conversation) HasParticipant(userID int64, role SenderRole) bool {
	switch role {
	case SenderStudent:
		return c.StudentID == userID
	case SenderRecruiter:
		return c.RecruiterID == userID
	default:
		return false
	}
}

// Message is append-only; Seq is the 1-based position inside its conversation
type Message struct {
	ID             int64      `json:"id" db:"id"`
	ConversationID int64      `json:"conversationId" db:"conversation_id"`
	Seq            int        `json:"seq" db:"seq"`
	SenderID       int64      `json:"senderId" db:"sender_id"`
	SenderRole     SenderRole `json:"senderRole" db:"sender_role"`
	Body           string     `json:"body" db:"body"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
}

// ConversationSummary is the list view of a conversation
type ConversationSummary struct {
	Conversation
	JobTitle      string     `json:"jobTitle"`
	Company       string     `json:"company"`
	StudentName   string     `json:"studentName"`
	RecruiterName string     `json:"recruiterName"`
	MessageCount  int        `json:"messageCount"`
	LastMessage   *string    `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
}
