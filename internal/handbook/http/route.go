package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers handbook and membership routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/handbooks")

	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.POST("", h.Create)
		group.GET("/:id", h.Get)
		group.PATCH("/:id", h.Update)
		group.DELETE("/:id", h.Delete)

		group.GET("/:id/members", h.ListMembers)
		group.POST("/:id/members", h.AddMember)
		group.PATCH("/:id/members/:userId", h.UpdateMember)
		group.DELETE("/:id/members/:userId", h.RemoveMember)
	}

	// Slug resolution for the member-facing app.
	g.GET("/handbook-by-slug/:slug", authMiddleware, h.GetBySlug)
}
