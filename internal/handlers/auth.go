package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clubportal/api/internal/middleware"
	"clubportal/api/internal/models"
	"clubportal/api/internal/service"
)

type loginRequest struct {
	Passcode string `json:"passcode" binding:"required"`
	DeviceID string `json:"deviceId" binding:"required"`
}

type sessionResponse struct {
	ID           string    `json:"id"`
	DeviceID     string    `json:"deviceId"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	LastActiveAt time.Time `json:"lastActiveAt"`
}

func toSessionResponse(session models.Session) sessionResponse {
	return sessionResponse{
		ID:           session.ID,
		DeviceID:     session.DeviceID,
		Role:         session.Role.String(),
		CreatedAt:    session.CreatedAt,
		LastActiveAt: session.LastActiveAt,
	}
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	result, err := h.auth.Authenticate(c.Request.Context(), service.AuthenticateInput{
		Passcode:  req.Passcode,
		DeviceID:  req.DeviceID,
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	if result.Waiting {
		c.JSON(http.StatusOK, gin.H{
			"waiting": true,
			"message": result.Message,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":       toSessionResponse(result.Session),
		"needsUsername": result.NeedsUsername,
	})
}

type setUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

func (h HandlerSet) SetUsername(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req setUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	profile, err := h.auth.SetUsername(c.Request.Context(), session, req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": profile.Username})
}

func (h HandlerSet) Me(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	resp := gin.H{"session": toSessionResponse(session)}
	if profile, err := h.auth.Profile(c.Request.Context(), session); err == nil {
		resp["username"] = profile.Username
	}

	c.JSON(http.StatusOK, resp)
}
