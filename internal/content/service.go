package content

import (
	"context"
	"strings"

	"github.com/pontush81/handbook-backend/internal/handbook"
)

// CreateSectionRequest holds fields for creating a section.
type CreateSectionRequest struct {
	HandbookID  string
	Title       string
	Description string
	OrderIndex  int
}

// UpdateSectionRequest holds mutable section fields. Nil means "leave as is".
type UpdateSectionRequest struct {
	Title       *string
	Description *string
	OrderIndex  *int
	Published   *bool
}

// CreatePageRequest holds fields for creating a page.
type CreatePageRequest struct {
	SectionID  string
	Title      string
	Content    string
	OrderIndex int
}

// UpdatePageRequest holds mutable page fields. Nil means "leave as is".
type UpdatePageRequest struct {
	Title      *string
	Content    *string
	OrderIndex *int
	Published  *bool
}

// Service defines business logic for handbook content. All mutations are
// gated on the handbook's trial/subscription state; results are returned only
// after the database has confirmed them.
type Service interface {
	CreateSection(ctx context.Context, req CreateSectionRequest) (*Section, error)
	GetSection(ctx context.Context, id string) (*Section, error)
	ListSections(ctx context.Context, filter SectionFilter) ([]*Section, error)
	UpdateSection(ctx context.Context, id string, req UpdateSectionRequest) (*Section, error)
	DeleteSection(ctx context.Context, id string) error

	CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error)
	GetPage(ctx context.Context, id string) (*Page, error)
	ListPages(ctx context.Context, filter PageFilter) ([]*Page, error)
	UpdatePage(ctx context.Context, id string, req UpdatePageRequest) (*Page, error)
	DeletePage(ctx context.Context, id string) error
}

type service struct {
	repo            Repository
	handbookService handbook.Service
}

// NewService creates a content Service.
func NewService(repo Repository, handbookService handbook.Service) Service {
	return &service{
		repo:            repo,
		handbookService: handbookService,
	}
}

func (s *service) CreateSection(ctx context.Context, req CreateSectionRequest) (*Section, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}

	if err := s.handbookService.EnsureWritable(ctx, req.HandbookID); err != nil {
		return nil, err
	}

	sec := &Section{
		HandbookID:  req.HandbookID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		OrderIndex:  req.OrderIndex,
		Published:   false,
	}

	if err := s.repo.CreateSection(ctx, sec); err != nil {
		return nil, err
	}
	return sec, nil
}

func (s *service) GetSection(ctx context.Context, id string) (*Section, error) {
	return s.repo.GetSection(ctx, id)
}

func (s *service) ListSections(ctx context.Context, filter SectionFilter) ([]*Section, error) {
	return s.repo.ListSections(ctx, filter)
}

func (s *service) UpdateSection(ctx context.Context, id string, req UpdateSectionRequest) (*Section, error) {
	sec, err := s.repo.GetSection(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.handbookService.EnsureWritable(ctx, sec.HandbookID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		sec.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		sec.Description = *req.Description
	}
	if req.OrderIndex != nil {
		sec.OrderIndex = *req.OrderIndex
	}
	if req.Published != nil {
		sec.Published = *req.Published
	}

	if err := s.repo.UpdateSection(ctx, sec); err != nil {
		return nil, err
	}
	return sec, nil
}

func (s *service) DeleteSection(ctx context.Context, id string) error {
	sec, err := s.repo.GetSection(ctx, id)
	if err != nil {
		return err
	}
	if err := s.handbookService.EnsureWritable(ctx, sec.HandbookID); err != nil {
		return err
	}
	return s.repo.DeleteSection(ctx, id)
}

func (s *service) CreatePage(ctx context.Context, req CreatePageRequest) (*Page, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}

	sec, err := s.repo.GetSection(ctx, req.SectionID)
	if err != nil {
		return nil, err
	}

	if err := s.handbookService.EnsureWritable(ctx, sec.HandbookID); err != nil {
		return nil, err
	}

	p := &Page{
		SectionID:  sec.ID,
		HandbookID: sec.HandbookID,
		Title:      strings.TrimSpace(req.Title),
		Content:    req.Content,
		OrderIndex: req.OrderIndex,
		Published:  false,
	}

	if err := s.repo.CreatePage(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) GetPage(ctx context.Context, id string) (*Page, error) {
	return s.repo.GetPage(ctx, id)
}

func (s *service) ListPages(ctx context.Context, filter PageFilter) ([]*Page, error) {
	return s.repo.ListPages(ctx, filter)
}

func (s *service) UpdatePage(ctx context.Context, id string, req UpdatePageRequest) (*Page, error) {
	p, err := s.repo.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.handbookService.EnsureWritable(ctx, p.HandbookID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		p.Content = *req.Content
	}
	if req.OrderIndex != nil {
		p.OrderIndex = *req.OrderIndex
	}
	if req.Published != nil {
		p.Published = *req.Published
	}

	if err := s.repo.UpdatePage(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) DeletePage(ctx context.Context, id string) error {
	p, err := s.repo.GetPage(ctx, id)
	if err != nil {
		return err
	}
	if err := s.handbookService.EnsureWritable(ctx, p.HandbookID); err != nil {
		return err
	}
	return s.repo.DeletePage(ctx, id)
}
