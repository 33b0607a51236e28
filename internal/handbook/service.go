package handbook

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/pontush81/handbook-backend/internal/user"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// CreateRequest holds the fields needed to create a handbook.
type CreateRequest struct {
	Slug        string
	Title       string
	OwnerUserID string
}

// UpdateRequest holds the mutable handbook fields. Nil means "leave as is".
type UpdateRequest struct {
	Slug               *string
	Title              *string
	Published          *bool
	SubscriptionActive *bool
}

// AddMemberRequest holds fields for adding a member.
type AddMemberRequest struct {
	UserID string
	Role   string
}

// Service defines business logic for handbooks and their memberships.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Handbook, error)
	GetByID(ctx context.Context, id string) (*Handbook, error)
	GetBySlug(ctx context.Context, slug string) (*Handbook, error)
	List(ctx context.Context, filter Filter) ([]*Handbook, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Handbook, error)
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, handbookID string, req AddMemberRequest) error
	GetMember(ctx context.Context, handbookID, userID string) (*Member, error)
	UpdateMemberRole(ctx context.Context, handbookID, userID, role string) error
	RemoveMember(ctx context.Context, handbookID, userID string) error
	ListMembers(ctx context.Context, handbookID string, filter MemberFilter) ([]*Member, int, error)

	// IsAdmin reports whether the user is the handbook owner or holds the
	// admin role. Superadmin status is handled a layer up.
	IsAdmin(ctx context.Context, handbookID, userID string) (bool, error)
	// CanEdit reports whether the user may mutate content (admin or editor).
	CanEdit(ctx context.Context, handbookID, userID string) (bool, error)
	// IsMember reports whether the user belongs to the handbook at all.
	IsMember(ctx context.Context, handbookID, userID string) (bool, error)
	// EnsureWritable fails with ErrSubscriptionEnded when the trial has run
	// out and no subscription is active. Reads are never gated.
	EnsureWritable(ctx context.Context, handbookID string) error
}

type service struct {
	repo        Repository
	userService user.Service
	trialPeriod time.Duration
}

// NewService creates a handbook Service. trialDays is the trial period
// granted to newly created handbooks.
func NewService(repo Repository, userService user.Service, trialDays int) Service {
	return &service{
		repo:        repo,
		userService: userService,
		trialPeriod: time.Duration(trialDays) * 24 * time.Hour,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Handbook, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, ErrInvalidSlug
	}

	h := &Handbook{
		Slug:        slug,
		Title:       title,
		OwnerUserID: req.OwnerUserID,
		Published:   false,
		TrialEndsAt: time.Now().UTC().Add(s.trialPeriod),
	}

	if err := s.repo.Create(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Handbook, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*Handbook, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Handbook, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Handbook, error) {
	h, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*req.Slug))
		if !slugPattern.MatchString(slug) {
			return nil, ErrInvalidSlug
		}
		h.Slug = slug
	}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, ErrTitleRequired
		}
		h.Title = title
	}
	if req.Published != nil {
		h.Published = *req.Published
	}
	if req.SubscriptionActive != nil {
		h.SubscriptionActive = *req.SubscriptionActive
	}

	if err := s.repo.Update(ctx, h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *service) AddMember(ctx context.Context, handbookID string, req AddMemberRequest) error {
	if !ValidRole(req.Role) {
		return ErrInvalidRole
	}

	if _, err := s.repo.GetByID(ctx, handbookID); err != nil {
		return err
	}

	if _, err := s.userService.GetByID(ctx, req.UserID); err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return ErrMemberNotFound
		}
		return err
	}

	return s.repo.AddMember(ctx, handbookID, req.UserID, req.Role)
}

func (s *service) GetMember(ctx context.Context, handbookID, userID string) (*Member, error) {
	return s.repo.GetMember(ctx, handbookID, userID)
}

func (s *service) UpdateMemberRole(ctx context.Context, handbookID, userID, role string) error {
	if !ValidRole(role) {
		return ErrInvalidRole
	}
	return s.repo.UpdateMemberRole(ctx, handbookID, userID, role)
}

func (s *service) RemoveMember(ctx context.Context, handbookID, userID string) error {
	h, err := s.repo.GetByID(ctx, handbookID)
	if err != nil {
		return err
	}
	if h.OwnerUserID == userID {
		return ErrOwnerRemoval
	}
	return s.repo.RemoveMember(ctx, handbookID, userID)
}

func (s *service) ListMembers(ctx context.Context, handbookID string, filter MemberFilter) ([]*Member, int, error) {
	return s.repo.ListMembers(ctx, handbookID, filter)
}

func (s *service) IsAdmin(ctx context.Context, handbookID, userID string) (bool, error) {
	h, err := s.repo.GetByID(ctx, handbookID)
	if err != nil {
		return false, err
	}
	if h.OwnerUserID == userID {
		return true, nil
	}

	m, err := s.repo.GetMember(ctx, handbookID, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return false, nil
		}
		return false, err
	}
	return m.Role == RoleAdmin, nil
}

func (s *service) CanEdit(ctx context.Context, handbookID, userID string) (bool, error) {
	h, err := s.repo.GetByID(ctx, handbookID)
	if err != nil {
		return false, err
	}
	if h.OwnerUserID == userID {
		return true, nil
	}

	m, err := s.repo.GetMember(ctx, handbookID, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return false, nil
		}
		return false, err
	}
	return m.CanEdit(), nil
}

func (s *service) IsMember(ctx context.Context, handbookID, userID string) (bool, error) {
	_, err := s.repo.GetMember(ctx, handbookID, userID)
	if err != nil {
		if errors.Is(err, ErrMemberNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *service) EnsureWritable(ctx context.Context, handbookID string) error {
	h, err := s.repo.GetByID(ctx, handbookID)
	if err != nil {
		return err
	}
	if h.Status(time.Now().UTC()) == StatusExpired {
		return ErrSubscriptionEnded
	}
	return nil
}
