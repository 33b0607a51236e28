package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pontush81/handbook-backend/internal/announcement"
	"github.com/pontush81/handbook-backend/internal/api"
	"github.com/pontush81/handbook-backend/internal/auth"
	"github.com/pontush81/handbook-backend/internal/booking"
	"github.com/pontush81/handbook-backend/internal/content"
	"github.com/pontush81/handbook-backend/internal/document"
	"github.com/pontush81/handbook-backend/internal/handbook"
	"github.com/pontush81/handbook-backend/internal/notify"
	"github.com/pontush81/handbook-backend/internal/pkg/storage"
	"github.com/pontush81/handbook-backend/internal/resource"
	"github.com/pontush81/handbook-backend/internal/user"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction bool
	ProdOrigins  string
	DBPool       *pgxpool.Pool
	JWTSecret    string
	JWTTTL       time.Duration
	BcryptCost   int
	UploadDir    string
	TrialDays    int
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Hub        *notify.Hub
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) (*Container, error) {
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	hub := notify.NewHub()

	store, err := storage.NewLocalStorage(cfg.UploadDir)
	if err != nil {
		return nil, fmt.Errorf("init upload storage: %w", err)
	}

	// User module
	userRepo := user.NewPgxRepository(cfg.DBPool)
	userService := user.NewService(userRepo, passwordHasher)

	// Handbook (tenant) module
	handbookRepo := handbook.NewPgxRepository(cfg.DBPool)
	handbookService := handbook.NewService(handbookRepo, userService, cfg.TrialDays)

	// Content module
	contentRepo := content.NewPgxRepository(cfg.DBPool)
	contentService := content.NewService(contentRepo, handbookService)

	// Resource module
	resourceRepo := resource.NewPgxRepository(cfg.DBPool)
	resourceService := resource.NewService(resourceRepo, handbookService)

	// Booking module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, resourceService, handbookService, hub)

	// Announcement module
	annRepo := announcement.NewPgxRepository(cfg.DBPool)
	annService := announcement.NewService(annRepo, handbookService)

	// Document module
	documentRepo := document.NewPgxRepository(cfg.DBPool)
	documentService := document.NewService(documentRepo, store, handbookService)

	router := api.NewRouter(api.Config{
		IsProduction:        cfg.IsProduction,
		ProdOrigins:         cfg.ProdOrigins,
		UserService:         userService,
		HandbookService:     handbookService,
		ContentService:      contentService,
		ResourceService:     resourceService,
		BookingService:      bookingService,
		AnnouncementService: annService,
		DocumentService:     documentService,
		Hub:                 hub,
		JWTManager:          jwtManager,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Hub:        hub,
	}, nil
}
