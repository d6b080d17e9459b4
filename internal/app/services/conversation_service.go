package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	appauth "github.com/yigit/joblink/internal/app/auth"
	"github.com/yigit/joblink/internal/app/models"
	"github.com/yigit/joblink/internal/app/models/dto"
	"github.com/yigit/joblink/internal/app/repositories"
	"github.com/yigit/joblink/internal/pkg/apperrors"
	"github.com/yigit/joblink/internal/pkg/ratelimit"
)

// SeedMessage opens every conversation on behalf of the recruiter
const SeedMessage = "Hi! Thanks for applying. We'd like to move forward with your application and invite you to an in-person interview. Let's use this chat to coordinate next steps."

// MaxMessageLength bounds a single message body, in runes
const MaxMessageLength = 5000

// MessageRateLimit bounds how often one sender may post into one conversation
type MessageRateLimit struct {
	Limit  int
	Window time.Duration
}

// ConversationService provisions conversations and gates every message append
type ConversationService interface {
	// EnsureConversation returns the conversation for (student, job), creating it with the
	// recruiter's seed message when absent. Safe under concurrent calls for the same key.
	EnsureConversation(ctx context.Context, studentID, recruiterID, jobID int64) (*models.Conversation, error)
	PostMessage(ctx context.Context, conversationID int64, sender models.Principal, body string) (*dto.ConversationResponse, error)
	ListConversations(ctx context.Context, participant models.Principal) ([]dto.ConversationSummaryResponse, error)
	GetConversation(ctx context.Context, conversationID int64, requester models.Principal) (*dto.ConversationResponse, error)
	ListMessages(ctx context.Context, conversationID int64, requester models.Principal, afterSeq, limit int) ([]dto.MessageResponse, error)
}

type conversationServiceImpl struct {
	tx        TxRunner
	convRepo  repositories.IConversationRepository
	msgRepo   repositories.IMessageRepository
	authz     *appauth.AuthorizationService
	limiter   ratelimit.Limiter
	rateLimit MessageRateLimit
	logger    zerolog.Logger
}

// NewConversationService creates a new ConversationService.
// A nil limiter disables message rate limiting.
func NewConversationService(
	tx TxRunner,
	convRepo repositories.IConversationRepository,
	msgRepo repositories.IMessageRepository,
	authz *appauth.AuthorizationService,
	limiter ratelimit.Limiter,
	rateLimit MessageRateLimit,
	logger zerolog.Logger,
) ConversationService {
	return &conversationServiceImpl{
		tx:        tx,
		convRepo:  convRepo,
		msgRepo:   msgRepo,
		authz:     authz,
		limiter:   limiter,
		rateLimit: rateLimit,
		logger:    logger,
	}
}

// EnsureConversation implements ConversationService
func (s *conversationServiceImpl) EnsureConversation(ctx context.Context, studentID, recruiterID, jobID int64) (*models.Conversation, error) {
	var conv *models.Conversation
	created := false

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.convRepo.GetByStudentAndJob(ctx, studentID, jobID)
		if err == nil {
			conv = existing
			return nil
		}
		if !errors.Is(err, apperrors.ErrResourceNotFound) {
			return err
		}

		fresh := &models.Conversation{StudentID: studentID, RecruiterID: recruiterID, JobID: jobID}
		if err := s.convRepo.Insert(ctx, fresh); err != nil {
			if !errors.Is(err, apperrors.ErrConflictRace) {
				return err
			}
			// lost the race: the winner's row is committed and carries the seed message
			s.logger.Debug().Int64("studentID", studentID).Int64("jobID", jobID).Msg("Conversation created concurrently, re-reading")
			existing, err := s.convRepo.GetByStudentAndJob(ctx, studentID, jobID)
			if err != nil {
				return fmt.Errorf("failed to re-read conversation after conflict: %w", err)
			}
			conv = existing
			return nil
		}

		seed := &models.Message{
			ConversationID: fresh.ID,
			SenderID:       recruiterID,
			SenderRole:     models.SenderRecruiter,
			Body:           SeedMessage,
		}
		if err := s.msgRepo.Append(ctx, seed); err != nil {
			return fmt.Errorf("failed to append seed message: %w", err)
		}
		fresh.Messages = []models.Message{*seed}
		conv = fresh
		created = true
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Int64("studentID", studentID).Int64("jobID", jobID).Msg("Failed to ensure conversation")
		return nil, err
	}

	if created {
		s.logger.Info().Int64("conversationID", conv.ID).Int64("studentID", studentID).Int64("jobID", jobID).Msg("Conversation created")
	}
	return conv, nil
}

// loadForParticipant fetches a conversation and checks the requester takes part in it
func (s *conversationServiceImpl) loadForParticipant(ctx context.Context, conversationID int64, p models.Principal) (*models.Conversation, models.SenderRole, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, "", apperrors.NewResourceNotFoundError(fmt.Sprintf("conversation %d not found", conversationID))
		}
		return nil, "", fmt.Errorf("failed to load conversation: %w", err)
	}

	role, err := s.authz.ValidateParticipant(conv, p)
	if err != nil {
		return nil, "", err
	}
	return conv, role, nil
}

// PostMessage implements ConversationService.
// Students may never author the first message of a conversation.
func (s *conversationServiceImpl) PostMessage(ctx context.Context, conversationID int64, sender models.Principal, body string) (*dto.ConversationResponse, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.NewResourceNotFoundError(fmt.Sprintf("conversation %d not found", conversationID))
		}
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.NewInvalidInputError("message body cannot be empty")
	}
	if len([]rune(body)) > MaxMessageLength {
		return nil, apperrors.NewInvalidInputError(fmt.Sprintf("message body exceeds %d characters", MaxMessageLength))
	}

	role, err := s.authz.ValidateParticipant(conv, sender)
	if err != nil {
		return nil, err
	}

	if s.limiter != nil && s.rateLimit.Limit > 0 {
		key := fmt.Sprintf("msg:%d:%d", conversationID, sender.UserID)
		if !s.limiter.Allow(key, s.rateLimit.Limit, s.rateLimit.Window) {
			return nil, apperrors.NewRateLimitedError("too many messages, slow down")
		}
	}

	msg := &models.Message{
		ConversationID: conversationID,
		SenderID:       sender.UserID,
		SenderRole:     role,
		Body:           body,
	}

	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.convRepo.LockForAppend(ctx, conversationID); err != nil {
			return err
		}

		count, err := s.msgRepo.Count(ctx, conversationID)
		if err != nil {
			return err
		}
		if count == 0 && role == models.SenderStudent {
			return apperrors.NewRecruiterMustLeadError("the recruiter must send the first message")
		}

		if err := s.msgRepo.Append(ctx, msg); err != nil {
			return err
		}
		return s.convRepo.Touch(ctx, conversationID)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrRecruiterMustLead) {
			s.logger.Warn().Int64("conversationID", conversationID).Int64("senderID", sender.UserID).Msg("Student tried to open a conversation")
			return nil, err
		}
		s.logger.Error().Err(err).Int64("conversationID", conversationID).Msg("Failed to post message")
		return nil, fmt.Errorf("failed to post message: %w", err)
	}

	s.logger.Debug().Int64("conversationID", conversationID).Int("seq", msg.Seq).Str("role", string(role)).Msg("Message posted")

	messages, err := s.msgRepo.ListAfter(ctx, conversationID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	conv.Messages = messages
	conv.UpdatedAt = msg.CreatedAt

	resp := dto.NewConversationResponse(conv)
	return &resp, nil
}

// ListConversations implements ConversationService
func (s *conversationServiceImpl) ListConversations(ctx context.Context, participant models.Principal) ([]dto.ConversationSummaryResponse, error) {
	role, ok := models.SenderRoleFor(participant.Role)
	if !ok {
		return nil, apperrors.NewForbiddenError("unknown role")
	}

	list, err := s.convRepo.ListForParticipant(ctx, participant.UserID, role)
	if err != nil {
		s.logger.Error().Err(err).Int64("userID", participant.UserID).Msg("Failed to list conversations")
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	return dto.NewConversationSummaryResponses(list), nil
}

// GetConversation implements ConversationService
func (s *conversationServiceImpl) GetConversation(ctx context.Context, conversationID int64, requester models.Principal) (*dto.ConversationResponse, error) {
	conv, _, err := s.loadForParticipant(ctx, conversationID, requester)
	if err != nil {
		return nil, err
	}

	messages, err := s.msgRepo.ListAfter(ctx, conversationID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	conv.Messages = messages

	resp := dto.NewConversationResponse(conv)
	return &resp, nil
}

// ListMessages returns the messages after afterSeq, for clients polling for new ones
func (s *conversationServiceImpl) ListMessages(ctx context.Context, conversationID int64, requester models.Principal, afterSeq, limit int) ([]dto.MessageResponse, error) {
	if afterSeq < 0 || limit < 0 {
		return nil, apperrors.NewInvalidInputError("after and limit must not be negative")
	}
	if _, _, err := s.loadForParticipant(ctx, conversationID, requester); err != nil {
		return nil, err
	}

	messages, err := s.msgRepo.ListAfter(ctx, conversationID, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}
	return dto.NewMessageResponses(messages), nil
}
