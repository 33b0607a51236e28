package auth

import "github.com/gin-gonic/gin"

// Gin context keys set by AuthRequired.
const (
	ctxUserID    = "userID"
	ctxUserEmail = "userEmail"
)

// GetUserID returns the authenticated user's ID, or "" if the request is
// unauthenticated.
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetUserEmail returns the authenticated user's email, or "" if the request
// is unauthenticated.
func GetUserEmail(c *gin.Context) string {
	return c.GetString(ctxUserEmail)
}
