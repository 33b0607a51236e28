package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pontush81/handbook-backend/internal/auth"
	"github.com/pontush81/handbook-backend/internal/user"
)

// RequireSuperAdmin ensures the authenticated user is a platform superadmin.
// It MUST run after auth.AuthRequired.
func RequireSuperAdmin(userService user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		u, err := userService.GetByID(c.Request.Context(), userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			return
		}

		if !u.IsSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden: superadmin access required"})
			return
		}

		c.Next()
	}
}
