package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"studentcab/internal/domain"
	"studentcab/internal/middleware"
	"studentcab/internal/service"
)

// MessageHandler handles in-ride chat endpoints.
type MessageHandler struct {
	messageService *service.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessageRequest is the HTTP request body for sending a chat message.
type SendMessageRequest struct {
	Body string `json:"body"`
}

// MessageResponse is the HTTP representation of a chat message.
type MessageResponse struct {
	ID         string `json:"id"`
	RideID     string `json:"ride_id"`
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Body       string `json:"body"`
	Read       bool   `json:"read"`
	CreatedAt  string `json:"created_at"`
}

func toMessageResponse(m *domain.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID,
		RideID:     m.RideID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Body:       m.Body,
		Read:       m.Read,
		CreatedAt:  formatTime(m.CreatedAt),
	}
}

// SendMessage handles POST /v1/rides/:id/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextAccountID), req.Body)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toMessageResponse(message))
}

// ListMessages handles GET /v1/rides/:id/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	messages, err := h.messageService.Messages(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextAccountID))
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		responses = append(responses, toMessageResponse(m))
	}
	respondJSON(c, http.StatusOK, gin.H{"messages": responses})
}

// MarkRead handles PUT /v1/messages/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	if err := h.messageService.MarkRead(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextAccountID)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
