package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers document routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	documents := g.Group("/documents")
	documents.Use(authMiddleware)
	{
		documents.POST("", h.Upload)
		documents.GET("/:id", h.Get)
		documents.GET("/:id/content", h.ServeContent)
		documents.GET("/:id/thumbnail", h.ServeThumbnail)
		documents.DELETE("/:id", h.Delete)
	}

	g.GET("/handbooks/:id/documents", authMiddleware, h.List)
}
