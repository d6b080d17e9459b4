package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/joblink/internal/app/models/dto"
	"github.com/yigit/joblink/internal/app/services"
	"github.com/yigit/joblink/internal/middleware"
)

// ConversationController handles recruiter/student conversations
type ConversationController struct {
	conversationService services.ConversationService
	logger              zerolog.Logger
}

// NewConversationController creates a new ConversationController
func NewConversationController(conversationService services.ConversationService, logger zerolog.Logger) *ConversationController {
	return &ConversationController{
		conversationService: conversationService,
		logger:              logger,
	}
}

// ListConversations returns the caller's conversations
// @Summary List conversations
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]dto.ConversationSummaryResponse}
// @Failure 401 {object} dto.ErrorResponse
// @Router /conversations [get]
func (c *ConversationController) ListConversations(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}

	list, err := c.conversationService.ListConversations(ctx.Request.Context(), p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list, "Conversations retrieved successfully"))
}

// GetConversation returns one conversation with its messages
// @Summary Get conversation
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Success 200 {object} dto.APIResponse{data=dto.ConversationResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse
// @Router /conversations/{id} [get]
func (c *ConversationController) GetConversation(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	resp, err := c.conversationService.GetConversation(ctx.Request.Context(), id, p)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Conversation retrieved successfully"))
}

// ListMessages returns messages after a sequence number, for polling clients
// @Summary Poll messages
// @Tags conversations
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Param after query int false "Return messages with seq greater than this" default(0)
// @Param limit query int false "Maximum number of messages" default(50)
// @Success 200 {object} dto.APIResponse{data=[]dto.MessageResponse}
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse
// @Router /conversations/{id}/messages [get]
func (c *ConversationController) ListMessages(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.ListMessagesRequest
	if !middleware.BindQuery(ctx, &req) {
		return
	}

	msgs, err := c.conversationService.ListMessages(ctx.Request.Context(), id, p, req.After, req.Limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(msgs, "Messages retrieved successfully"))
}

// PostMessage appends a message to a conversation
// @Summary Send message
// @Description A student may only write once the recruiter has sent the first message
// @Tags conversations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Conversation ID"
// @Param request body dto.PostMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.ConversationResponse}
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Not a participant"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Recruiter must write first"
// @Failure 429 {object} dto.ErrorResponse "Too many messages"
// @Router /conversations/{id}/messages [post]
func (c *ConversationController) PostMessage(ctx *gin.Context) {
	p, ok := principal(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req dto.PostMessageRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	resp, err := c.conversationService.PostMessage(ctx.Request.Context(), id, p, req.Body)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp, "Message sent"))
}
