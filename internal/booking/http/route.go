package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	bookings := g.Group("/bookings")
	bookings.Use(authMiddleware)
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.List)
		bookings.GET("/:id", h.Get)
		bookings.POST("/:id/cancel", h.Cancel)
		bookings.POST("/:id/reschedule", h.Reschedule)
		bookings.DELETE("/:id", h.Delete)
	}

	// Schedule views hang off the resource.
	resources := g.Group("/resources")
	resources.Use(authMiddleware)
	{
		resources.GET("/:id/calendar", h.Calendar)
		resources.GET("/:id/availability", h.Availability)
		resources.GET("/:id/propose", h.Propose)
	}
}
