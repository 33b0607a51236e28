package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/pontush81/handbook-backend/internal/announcement"
	annHttp "github.com/pontush81/handbook-backend/internal/announcement/http"
	"github.com/pontush81/handbook-backend/internal/auth"
	"github.com/pontush81/handbook-backend/internal/booking"
	bookingHttp "github.com/pontush81/handbook-backend/internal/booking/http"
	"github.com/pontush81/handbook-backend/internal/content"
	contentHttp "github.com/pontush81/handbook-backend/internal/content/http"
	"github.com/pontush81/handbook-backend/internal/document"
	documentHttp "github.com/pontush81/handbook-backend/internal/document/http"
	"github.com/pontush81/handbook-backend/internal/handbook"
	handbookHttp "github.com/pontush81/handbook-backend/internal/handbook/http"
	"github.com/pontush81/handbook-backend/internal/notify"
	"github.com/pontush81/handbook-backend/internal/resource"
	resourceHttp "github.com/pontush81/handbook-backend/internal/resource/http"
	"github.com/pontush81/handbook-backend/internal/user"
	userHttp "github.com/pontush81/handbook-backend/internal/user/http"
)

// Config carries every service the router wires into handlers.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService         user.Service
	HandbookService     handbook.Service
	ContentService      content.Service
	ResourceService     resource.Service
	BookingService      booking.Service
	AnnouncementService announcement.Service
	DocumentService     document.Service
	Hub                 *notify.Hub
	JWTManager          *auth.JWTManager
}

// NewRouter assembles middleware (CORS, logging, auth) and registers every
// module's routes under /v1.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{"http://localhost:3000", "http://localhost:8081"}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	superAdminMiddleware := RequireSuperAdmin(cfg.UserService)

	userHandler := userHttp.NewUserHandler(cfg.UserService, cfg.JWTManager)
	handbookHandler := handbookHttp.NewHandler(cfg.HandbookService, cfg.UserService, cfg.Hub)
	contentHandler := contentHttp.NewHandler(cfg.ContentService, cfg.HandbookService, cfg.UserService)
	resourceHandler := resourceHttp.NewHandler(cfg.ResourceService, cfg.HandbookService, cfg.UserService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.ResourceService, cfg.HandbookService, cfg.UserService)
	announcementHandler := annHttp.NewHandler(cfg.AnnouncementService, cfg.HandbookService, cfg.UserService)
	documentHandler := documentHttp.NewHandler(cfg.DocumentService, cfg.HandbookService, cfg.UserService)
	notifyHandler := notify.NewHandler(cfg.Hub, cfg.HandbookService)

	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, superAdminMiddleware)
		handbookHttp.RegisterRoutes(v1, handbookHandler, authMiddleware)
		contentHttp.RegisterRoutes(v1, contentHandler, authMiddleware)
		resourceHttp.RegisterRoutes(v1, resourceHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		annHttp.RegisterRoutes(v1, announcementHandler, authMiddleware)
		documentHttp.RegisterRoutes(v1, documentHandler, authMiddleware)
		notify.RegisterRoutes(v1, notifyHandler, authMiddleware)
	}

	return r
}
