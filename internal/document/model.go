package document

import (
	"net/http"
	"time"

	"github.com/pontush81/handbook-backend/internal/pkg/apperror"
)

var (
	ErrNotFound        = apperror.New(http.StatusNotFound, "document not found")
	ErrUnsupportedType = apperror.New(http.StatusBadRequest, "only images and PDF documents are accepted")
	ErrTooLarge        = apperror.New(http.StatusRequestEntityTooLarge, "document exceeds the maximum allowed size")
)

// MaxSize caps uploads at 20 MB.
const MaxSize = 20 << 20

// Document is a file attached to a handbook, e.g. the association's bylaws
// or a floor plan.
type Document struct {
	ID             string
	HandbookID     string
	UploaderUserID string
	UploaderName   string
	Filename       string
	StoragePath    string  // internal, never exposed
	ThumbnailPath  *string // internal, set for images only
	ContentType    string
	Size           int64
	CreatedAt      time.Time
}

// DownloadURL returns the public URL for fetching a document's content.
func DownloadURL(id string) string {
	return "/v1/documents/" + id + "/content"
}

// ThumbnailURL returns the public URL for a document's thumbnail, or an empty
// string when none exists.
func (d *Document) ThumbnailURL() string {
	if d.ThumbnailPath == nil {
		return ""
	}
	return "/v1/documents/" + d.ID + "/thumbnail"
}

type Filter struct {
	HandbookID string
	Page       int
	PageSize   int
}
