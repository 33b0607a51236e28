package announcement

import (
	"net/http"
	"time"

	"github.com/pontush81/handbook-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "announcement not found")
	ErrTitleRequired   = apperror.New(http.StatusBadRequest, "title is required")
	ErrContentRequired = apperror.New(http.StatusBadRequest, "content is required")
)

// Announcement is a notice posted to a handbook's members, e.g. maintenance
// work or a board meeting.
type Announcement struct {
	ID           string
	HandbookID   string
	AuthorUserID string
	AuthorName   string
	Title        string
	Content      string
	Pinned       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Filter defines parameters for listing announcements.
type Filter struct {
	HandbookID string
	Keyword    string
	PinnedOnly bool
	Page       int
	PageSize   int
}
