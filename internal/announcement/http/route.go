package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers announcement routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	announcements := g.Group("/announcements")
	announcements.Use(authMiddleware)
	{
		announcements.POST("", h.Create)
		announcements.GET("/:id", h.Get)
		announcements.PATCH("/:id", h.Update)
		announcements.DELETE("/:id", h.Delete)
	}

	g.GET("/handbooks/:id/announcements", authMiddleware, h.List)
}
