package http

import (
	"time"

	"github.com/pontush81/handbook-backend/internal/document"
)

type DocumentResponse struct {
	ID           string    `json:"id"`
	HandbookID   string    `json:"handbook_id"`
	UploaderID   string    `json:"uploader_id"`
	UploaderName string    `json:"uploader_name"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewDocumentResponse(d *document.Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		HandbookID:   d.HandbookID,
		UploaderID:   d.UploaderUserID,
		UploaderName: d.UploaderName,
		Filename:     d.Filename,
		ContentType:  d.ContentType,
		Size:         d.Size,
		URL:          document.DownloadURL(d.ID),
		ThumbnailURL: d.ThumbnailURL(),
		CreatedAt:    d.CreatedAt,
	}
}
