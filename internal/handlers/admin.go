package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"clubportal/api/internal/middleware"
	"clubportal/api/internal/models"
)

type targetRequest struct {
	TargetDeviceID string `json:"targetDeviceId" binding:"required"`
}

func (h HandlerSet) Ban(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	if err := h.admin.Ban(c.Request.Context(), session, req.TargetDeviceID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) Unban(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	if err := h.admin.Unban(c.Request.Context(), session, req.TargetDeviceID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h HandlerSet) ListSessions(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	sessions, err := h.admin.ListSessions(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]gin.H, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, gin.H{
			"id":           s.ID,
			"deviceId":     s.DeviceID,
			"role":         s.Role.String(),
			"isBanned":     s.IsBanned,
			"lastActiveAt": s.LastActiveAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"sessions": items})
}

func (h HandlerSet) DeleteSession(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	deviceID := c.Param("deviceId")
	if deviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "deviceId required"})
		return
	}

	if err := h.admin.DeleteSession(c.Request.Context(), session, deviceID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type changeRoleRequest struct {
	TargetDeviceID string `json:"targetDeviceId" binding:"required"`
	Role           string `json:"role" binding:"required"`
}

func (h HandlerSet) ChangeRole(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	if err := h.admin.ChangeRole(c.Request.Context(), session, req.TargetDeviceID, req.Role); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type toggleSiteRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (h HandlerSet) ToggleSite(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req toggleSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Enabled == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "enabled is required"})
		return
	}

	if err := h.admin.ToggleSite(c.Request.Context(), session, *req.Enabled); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "enabled": *req.Enabled})
}

type waitlistEntryResponse struct {
	ID         string     `json:"id"`
	DeviceID   string     `json:"deviceId"`
	IPAddress  string     `json:"ipAddress"`
	Status     string     `json:"status"`
	ReviewedBy *string    `json:"reviewedBy,omitempty"`
	ReviewedAt *time.Time `json:"reviewedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func toWaitlistEntryResponse(entry models.WaitingListEntry) waitlistEntryResponse {
	return waitlistEntryResponse{
		ID:         entry.ID,
		DeviceID:   entry.DeviceID,
		IPAddress:  entry.IPAddress,
		Status:     string(entry.Status),
		ReviewedBy: entry.ReviewedBy,
		ReviewedAt: entry.ReviewedAt,
		CreatedAt:  entry.CreatedAt,
	}
}

func (h HandlerSet) ListWaitlist(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entries, err := h.admin.ListWaitlist(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]waitlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		items = append(items, toWaitlistEntryResponse(entry))
	}

	c.JSON(http.StatusOK, gin.H{"entries": items})
}

type reviewRequest struct {
	Decision string `json:"decision" binding:"required"`
}

func (h HandlerSet) ReviewWaitlist(c *gin.Context) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	entryID := c.Param("id")
	if entryID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": "entry id required"})
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": err.Error()})
		return
	}

	entry, err := h.admin.ReviewWaitlist(c.Request.Context(), session, entryID, req.Decision)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"entry": toWaitlistEntryResponse(entry)})
}
