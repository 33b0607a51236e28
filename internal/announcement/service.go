package announcement

import (
	"context"
	"strings"

	"github.com/pontush81/handbook-backend/internal/handbook"
)

type CreateRequest struct {
	HandbookID   string
	AuthorUserID string
	Title        string
	Content      string
	Pinned       bool
}

type UpdateRequest struct {
	Title   *string
	Content *string
	Pinned  *bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Announcement, error)
	GetByID(ctx context.Context, id string) (*Announcement, error)
	List(ctx context.Context, filter Filter) ([]*Announcement, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Announcement, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo            Repository
	handbookService handbook.Service
}

func NewService(repo Repository, handbookService handbook.Service) Service {
	return &service{
		repo:            repo,
		handbookService: handbookService,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Announcement, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrContentRequired
	}
	if err := s.handbookService.EnsureWritable(ctx, req.HandbookID); err != nil {
		return nil, err
	}

	a := &Announcement{
		HandbookID:   req.HandbookID,
		AuthorUserID: req.AuthorUserID,
		Title:        req.Title,
		Content:      req.Content,
		Pinned:       req.Pinned,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Announcement, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Announcement, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Announcement, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.handbookService.EnsureWritable(ctx, a.HandbookID); err != nil {
		return nil, err
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		a.Title = *req.Title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, ErrContentRequired
		}
		a.Content = *req.Content
	}
	if req.Pinned != nil {
		a.Pinned = *req.Pinned
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
