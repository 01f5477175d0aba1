package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clubportal/api/internal/models"
)

// RequireAtLeast gates a route group on the role hierarchy. Fine-grained
// target-aware checks still happen in the services via the authz matrix;
// this only rejects callers who could never pass them.
func RequireAtLeast(minimum models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := CurrentSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if !session.Role.AtLeast(minimum) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}

		c.Next()
	}
}
