package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers section and page routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	sections := g.Group("/sections")
	sections.Use(authMiddleware)
	{
		sections.POST("", h.CreateSection)
		sections.PATCH("/:id", h.UpdateSection)
		sections.DELETE("/:id", h.DeleteSection)
		sections.GET("/:id/pages", h.ListPages)
	}

	pages := g.Group("/pages")
	pages.Use(authMiddleware)
	{
		pages.POST("", h.CreatePage)
		pages.GET("/:id", h.GetPage)
		pages.PATCH("/:id", h.UpdatePage)
		pages.DELETE("/:id", h.DeletePage)
	}

	// Sections are listed in the context of their handbook.
	g.GET("/handbooks/:id/sections", authMiddleware, h.ListSections)
}
