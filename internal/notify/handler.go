package notify

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/pontush81/handbook-backend/internal/auth"
	"github.com/pontush81/handbook-backend/internal/handbook"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checking is handled by the CORS layer in front of the router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades member connections to websockets and subscribes them to
// their handbook's event stream.
type Handler struct {
	hub             *Hub
	handbookService handbook.Service
}

// NewHandler creates a websocket subscription handler.
func NewHandler(hub *Hub, handbookService handbook.Service) *Handler {
	return &Handler{
		hub:             hub,
		handbookService: handbookService,
	}
}

// Subscribe handles GET /handbooks/:id/events. Membership is required; the
// connection then receives every invalidation event for the handbook.
func (h *Handler) Subscribe(c *gin.Context) {
	handbookID := c.Param("id")
	if _, err := uuid.Parse(handbookID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	isMember, err := h.handbookService.IsMember(c.Request.Context(), handbookID, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check membership"})
		return
	}
	if !isMember {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("notify: failed to upgrade websocket: %v", err)
		return
	}

	h.hub.Subscribe(handbookID, conn)
}

// RegisterRoutes registers the event-stream route.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.GET("/handbooks/:id/events", authMiddleware, h.Subscribe)
}
