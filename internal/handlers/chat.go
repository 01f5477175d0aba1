package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clubportal/api/internal/middleware"
	"clubportal/api/internal/models"
)

type messageResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h HandlerSet) ListMessages(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	messages, err := h.moderation.List(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]messageResponse, 0, len(messages))
	for _, message := range messages {
		items = append(items, messageResponse{
			ID:        message.ID,
			SessionID: message.SessionID,
			Text:      message.Text,
			CreatedAt: message.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"messages": items})
}

type postMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h HandlerSet) PostMessage(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	message, err := h.moderation.Post(c.Request.Context(), session, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": messageResponse{
		ID:        message.ID,
		SessionID: message.SessionID,
		Text:      message.Text,
		CreatedAt: message.CreatedAt,
	}})
}

type messageActionRequest struct {
	Action string `json:"action" binding:"required"`
}

func (h HandlerSet) MessageAction(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	messageID := c.Param("id")
	if messageID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "message id required"})
		return
	}

	var req messageActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	action := models.MessageAction(req.Action)
	if err := h.moderation.Act(c.Request.Context(), session, messageID, action); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "action": string(action)})
}
