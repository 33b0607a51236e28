package content

import (
	"net/http"
	"time"

	"github.com/pontush81/handbook-backend/internal/pkg/apperror"
)

var (
	ErrSectionNotFound = apperror.New(http.StatusNotFound, "section not found")
	ErrPageNotFound    = apperror.New(http.StatusNotFound, "page not found")
	ErrTitleRequired   = apperror.New(http.StatusBadRequest, "title is required")
)

// Section is a chapter of a handbook, grouping related pages.
type Section struct {
	ID          string
	HandbookID  string
	Title       string
	Description string
	OrderIndex  int
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Page is a single markdown document inside a section.
type Page struct {
	ID         string
	SectionID  string
	HandbookID string
	Title      string
	Content    string // markdown
	OrderIndex int
	Published  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SectionFilter defines parameters for listing sections.
type SectionFilter struct {
	HandbookID    string
	PublishedOnly bool
}

// PageFilter defines parameters for listing pages.
type PageFilter struct {
	SectionID     string
	PublishedOnly bool
}
