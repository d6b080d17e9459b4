package services

import "context"

// Services defined in this package:
// - AuthService: registration and login
// - ProfileService: student and recruiter profiles, resume upload
// - JobService: job postings
// - ApplicationService: applying, applicant ranking and status transitions
// - ConversationService: conversation provisioning and the messaging gate

// TxRunner runs fn inside one database transaction carried by ctx.
// Nested calls join the outer transaction.
type TxRunner interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
