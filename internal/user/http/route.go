package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all user-related routes (including auth).
func RegisterRoutes(g *gin.RouterGroup, h *UserHandler, authMiddleware, superAdminMiddleware gin.HandlerFunc) {
	// Public routes
	authGroup := g.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}

	// Authenticated routes
	g.GET("/me", authMiddleware, h.Me)

	// Platform administration
	users := g.Group("/users")
	users.Use(authMiddleware, superAdminMiddleware)
	{
		users.GET("", h.ListUsers)
		users.PATCH("/:id/active", h.SetActive)
	}
}
