package handler

import (
	"net/http"

	"spark-chat/internal/services"
	"spark-chat/internal/transport/httpdto"
	spark_errors "spark-chat/pkg/errors"

	"github.com/gin-gonic/gin"
)

type ConversationHandler struct {
	service *services.ConversationService
	inbox   *services.InboxService
}

func NewConversationHandler(service *services.ConversationService, inbox *services.InboxService) *ConversationHandler {
	return &ConversationHandler{service: service, inbox: inbox}
}

// Create returns the conversation with other_user_id, creating it on first contact.
func (h *ConversationHandler) Create(c *gin.Context) {
	var req httpdto.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(spark_errors.ErrInvalidInput)
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	id, isNew, err := h.service.GetOrCreate(c.Request.Context(), userID, req.OtherUserID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusOK
	if isNew {
		status = http.StatusCreated
	}
	c.JSON(status, httpdto.NewSuccessResponse(httpdto.CreateConversationResponse{
		ConversationID: id,
		IsNew:          isNew,
	}))
}

// List is the inbox: conversations by recency with unread flags and the badge.
func (h *ConversationHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	inbox, err := h.inbox.Get(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromInbox(inbox)))
}

func (h *ConversationHandler) GetByID(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	item, err := h.service.Get(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromConversation(item)))
}

// Unread returns only the badge data for the tab indicator.
func (h *ConversationHandler) Unread(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	inbox, err := h.inbox.Get(c.Request.Context(), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.UnreadResponse{
		UnreadCount: inbox.UnreadCount,
		Badge:       inbox.Badge,
	}))
}
