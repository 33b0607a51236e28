package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers resource routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	resources := g.Group("/resources")
	resources.Use(authMiddleware)
	{
		resources.POST("", h.Create)
		resources.GET("/:id", h.Get)
		resources.PATCH("/:id", h.Update)
		resources.DELETE("/:id", h.Delete)
	}

	g.GET("/handbooks/:id/resources", authMiddleware, h.List)
}
