package http

import (
	"time"

	"github.com/pontush81/handbook-backend/internal/content"
)

type SectionResponse struct {
	ID          string    `json:"id"`
	HandbookID  string    `json:"handbook_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	OrderIndex  int       `json:"order_index"`
	Published   bool      `json:"published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewSectionResponse(s *content.Section) SectionResponse {
	return SectionResponse{
		ID:          s.ID,
		HandbookID:  s.HandbookID,
		Title:       s.Title,
		Description: s.Description,
		OrderIndex:  s.OrderIndex,
		Published:   s.Published,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

type PageResponse struct {
	ID         string    `json:"id"`
	SectionID  string    `json:"section_id"`
	HandbookID string    `json:"handbook_id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	OrderIndex int       `json:"order_index"`
	Published  bool      `json:"published"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func NewPageResponse(p *content.Page) PageResponse {
	return PageResponse{
		ID:         p.ID,
		SectionID:  p.SectionID,
		HandbookID: p.HandbookID,
		Title:      p.Title,
		Content:    p.Content,
		OrderIndex: p.OrderIndex,
		Published:  p.Published,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

type CreateSectionBody struct {
	HandbookID  string `json:"handbook_id" binding:"required,uuid"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	OrderIndex  int    `json:"order_index"`
}

type UpdateSectionBody struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	OrderIndex  *int    `json:"order_index"`
	Published   *bool   `json:"published"`
}

type CreatePageBody struct {
	SectionID  string `json:"section_id" binding:"required,uuid"`
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content"`
	OrderIndex int    `json:"order_index"`
}

type UpdatePageBody struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	OrderIndex *int    `json:"order_index"`
	Published  *bool   `json:"published"`
}
