package dto

import (
	"time"

	"github.com/yigit/joblink/internal/app/models"
)

// --- Request DTOs ---

// PostMessageRequest represents a new message in a conversation
type PostMessageRequest struct {
	Body string `json:"body" binding:"required,max=5000" example:"Thanks, Tuesday at 10 works for me."`
}

// ListMessagesRequest holds the polling parameters of the message listing
type ListMessagesRequest struct {
	After int `form:"after,default=0" binding:"min=0"`
	Limit int `form:"limit,default=50" binding:"min=1,max=200"`
}

// --- Response DTOs ---

// MessageResponse represents one message
type MessageResponse struct {
	ID         int64             `json:"id"`
	Seq        int               `json:"seq"`
	SenderID   int64             `json:"senderId"`
	SenderRole models.SenderRole `json:"senderRole" example:"recruiter"`
	Body       string            `json:"body"`
	CreatedAt  time.Time         `json:"createdAt"`
}

// NewMessageResponses maps messages keeping their order
func NewMessageResponses(msgs []models.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, MessageResponse{
			ID:         m.ID,
			Seq:        m.Seq,
			SenderID:   m.SenderID,
			SenderRole: m.SenderRole,
			Body:       m.Body,
			CreatedAt:  m.CreatedAt,
		})
	}
	return out
}

// ConversationResponse represents a conversation with its messages
type ConversationResponse struct {
	ID          int64             `json:"id"`
	StudentID   int64             `json:"studentId"`
	RecruiterID int64             `json:"recruiterId"`
	JobID       int64             `json:"jobId"`
	CreatedAt   time.Time         `json:"createdAt"`
	Messages    []MessageResponse `json:"messages"`
}

// NewConversationResponse maps a conversation onto its public representation
func NewConversationResponse(c *models.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:          c.ID,
		StudentID:   c.StudentID,
		RecruiterID: c.RecruiterID,
		JobID:       c.JobID,
		CreatedAt:   c.CreatedAt,
		Messages:    NewMessageResponses(c.Messages),
	}
}

// ConversationSummaryResponse is one row of the conversation list
type ConversationSummaryResponse struct {
	ID            int64      `json:"id"`
	JobID         int64      `json:"jobId"`
	JobTitle      string     `json:"jobTitle"`
	Company       string     `json:"company"`
	StudentID     int64      `json:"studentId"`
	StudentName   string     `json:"studentName"`
	RecruiterID   int64      `json:"recruiterId"`
	RecruiterName string     `json:"recruiterName"`
	MessageCount  int        `json:"messageCount"`
	LastMessage   *string    `json:"lastMessage,omitempty"`
	LastMessageAt *time.Time `json:"lastMessageAt,omitempty"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// NewConversationSummaryResponses maps summaries keeping their order
func NewConversationSummaryResponses(list []*models.ConversationSummary) []ConversationSummaryResponse {
	out := make([]ConversationSummaryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, ConversationSummaryResponse{
			ID:            s.ID,
			JobID:         s.JobID,
			JobTitle:      s.JobTitle,
			Company:       s.Company,
			StudentID:     s.StudentID,
			StudentName:   s.StudentName,
			RecruiterID:   s.RecruiterID,
			RecruiterName: s.RecruiterName,
			MessageCount:  s.MessageCount,
			LastMessage:   s.LastMessage,
			LastMessageAt: s.LastMessageAt,
			UpdatedAt:     s.UpdatedAt,
		})
	}
	return out
}
