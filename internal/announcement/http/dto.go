package http

import (
	"time"

	"github.com/pontush81/handbook-backend/internal/announcement"
)

type CreateAnnouncementBody struct {
	HandbookID string `json:"handbook_id" binding:"required,uuid"`
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Pinned     bool   `json:"pinned"`
}

type UpdateAnnouncementBody struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Pinned  *bool   `json:"pinned"`
}

type AnnouncementResponse struct {
	ID           string    `json:"id"`
	HandbookID   string    `json:"handbook_id"`
	AuthorUserID string    `json:"author_user_id"`
	AuthorName   string    `json:"author_name"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Pinned       bool      `json:"pinned"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewAnnouncementResponse(a *announcement.Announcement) AnnouncementResponse {
	return AnnouncementResponse{
		ID:           a.ID,
		HandbookID:   a.HandbookID,
		AuthorUserID: a.AuthorUserID,
		AuthorName:   a.AuthorName,
		Title:        a.Title,
		Content:      a.Content,
		Pinned:       a.Pinned,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}
