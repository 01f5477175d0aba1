package handlers

import (
	"github.com/gin-gonic/gin"

	"clubportal/api/internal/apperr"
)

// respondError maps a service error onto the wire. Unknown errors collapse
// into a generic 500; internal detail stays in the server logs.
func respondError(c *gin.Context, err error) {
	appErr := apperr.From(err)
	c.JSON(appErr.Code, gin.H{
		"error":   appErr.Type,
		"message": appErr.Message,
	})
}
