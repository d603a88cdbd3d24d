package handler

import (
	"net/http"

	"spark-chat/internal/services"
	"spark-chat/internal/transport/httpdto"
	spark_errors "spark-chat/pkg/errors"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service *services.MessageService
	reads   *services.ReadService
}

func NewMessageHandler(service *services.MessageService, reads *services.ReadService) *MessageHandler {
	return &MessageHandler{service: service, reads: reads}
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(spark_errors.ErrInvalidInput)
		return
	}

	userID, ok := currentUser(c)
	if !ok {
		return
	}

	msg, err := h.service.Send(c.Request.Context(), services.SendInput{
		ConversationID: c.Param("id"),
		SenderID:       userID,
		Text:           req.Text,
		Type:           req.Type,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(msg)))
}

func (h *MessageHandler) List(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	items, err := h.service.List(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"messages": httpdto.FromMessageSlice(items)}))
}

func (h *MessageHandler) Count(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	count, err := h.service.Count(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MessageCountResponse{Count: count}))
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	marked, err := h.reads.MarkRead(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MarkReadResponse{Marked: marked}))
}
