package handbook

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage operations for handbooks and their members.
type Repository interface {
	Create(ctx context.Context, h *Handbook) error
	GetByID(ctx context.Context, id string) (*Handbook, error)
	GetBySlug(ctx context.Context, slug string) (*Handbook, error)
	List(ctx context.Context, filter Filter) ([]*Handbook, int, error)
	Update(ctx context.Context, h *Handbook) error
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, handbookID, userID, role string) error
	GetMember(ctx context.Context, handbookID, userID string) (*Member, error)
	UpdateMemberRole(ctx context.Context, handbookID, userID, role string) error
	RemoveMember(ctx context.Context, handbookID, userID string) error
	ListMembers(ctx context.Context, handbookID string, filter MemberFilter) ([]*Member, int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Repository backed by pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// Create inserts the handbook and its owner membership in one transaction so
// a handbook can never exist without an admin.
func (r *pgxRepository) Create(ctx context.Context, h *Handbook) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create handbook tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	const insertHandbook = `
		INSERT INTO public.handbooks (slug, title, owner_user_id, published, subscription_active, trial_ends_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	if err := tx.QueryRow(
		ctx, insertHandbook,
		h.Slug, h.Title, h.OwnerUserID, h.Published, h.SubscriptionActive, h.TrialEndsAt,
	).Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrSlugTaken
		}
		return fmt.Errorf("create handbook failed: %w", err)
	}

	const insertOwner = `
		INSERT INTO public.handbook_members (handbook_id, user_id, role)
		VALUES ($1, $2, $3)
	`
	if _, err := tx.Exec(ctx, insertOwner, h.ID, h.OwnerUserID, RoleAdmin); err != nil {
		return fmt.Errorf("create owner membership failed: %w", err)
	}

	return tx.Commit(ctx)
}

const handbookColumns = `
	id, slug, title, owner_user_id, published, subscription_active, trial_ends_at, created_at, updated_at
`

func scanHandbook(row pgx.Row) (*Handbook, error) {
	var h Handbook
	if err := row.Scan(
		&h.ID, &h.Slug, &h.Title, &h.OwnerUserID, &h.Published,
		&h.SubscriptionActive, &h.TrialEndsAt, &h.CreatedAt, &h.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan handbook failed: %w", err)
	}
	return &h, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Handbook, error) {
	query := `SELECT ` + handbookColumns + ` FROM public.handbooks WHERE id = $1`
	return scanHandbook(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) GetBySlug(ctx context.Context, slug string) (*Handbook, error) {
	query := `SELECT ` + handbookColumns + ` FROM public.handbooks WHERE slug = $1`
	return scanHandbook(r.pool.QueryRow(ctx, query, slug))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Handbook, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "slug", "title", "owner_user_id", "published",
		"subscription_active", "trial_ends_at", "created_at", "updated_at",
		"count(*) OVER() as total_count",
	).From("public.handbooks")

	if filter.OwnerUserID != "" {
		query = query.Where(squirrel.Eq{"owner_user_id": filter.OwnerUserID})
	}
	if filter.Published != nil {
		query = query.Where(squirrel.Eq{"published": *filter.Published})
	}

	query = query.OrderBy("created_at DESC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list handbooks query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list handbooks failed: %w", err)
	}
	defer rows.Close()

	var handbooks []*Handbook
	var total int

	for rows.Next() {
		var h Handbook
		if err := rows.Scan(
			&h.ID, &h.Slug, &h.Title, &h.OwnerUserID, &h.Published,
			&h.SubscriptionActive, &h.TrialEndsAt, &h.CreatedAt, &h.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan handbook failed: %w", err)
		}
		handbooks = append(handbooks, &h)
	}

	return handbooks, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, h *Handbook) error {
	const query = `
		UPDATE public.handbooks
		SET slug = $1, title = $2, published = $3, subscription_active = $4,
		    trial_ends_at = $5, updated_at = now()
		WHERE id = $6
	`
	ct, err := r.pool.Exec(ctx, query,
		h.Slug, h.Title, h.Published, h.SubscriptionActive, h.TrialEndsAt, h.ID)
	if err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrSlugTaken
		}
		return fmt.Errorf("update handbook failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.handbooks WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete handbook failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) AddMember(ctx context.Context, handbookID, userID, role string) error {
	const query = `
		INSERT INTO public.handbook_members (handbook_id, user_id, role)
		VALUES ($1, $2, $3)
	`
	if _, err := r.pool.Exec(ctx, query, handbookID, userID, role); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyMember
		}
		return fmt.Errorf("add member failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetMember(ctx context.Context, handbookID, userID string) (*Member, error) {
	const query = `
		SELECT hm.user_id, u.email, u.display_name, hm.role, hm.created_at
		FROM public.handbook_members hm
		JOIN public.users u ON hm.user_id = u.id
		WHERE hm.handbook_id = $1 AND hm.user_id = $2
	`
	row := r.pool.QueryRow(ctx, query, handbookID, userID)

	var m Member
	if err := row.Scan(&m.UserID, &m.Email, &m.DisplayName, &m.Role, &m.JoinedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("get member failed: %w", err)
	}
	return &m, nil
}

func (r *pgxRepository) UpdateMemberRole(ctx context.Context, handbookID, userID, role string) error {
	const query = `
		UPDATE public.handbook_members
		SET role = $1
		WHERE handbook_id = $2 AND user_id = $3
	`
	ct, err := r.pool.Exec(ctx, query, role, handbookID, userID)
	if err != nil {
		return fmt.Errorf("update member role failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *pgxRepository) RemoveMember(ctx context.Context, handbookID, userID string) error {
	const query = `
		DELETE FROM public.handbook_members
		WHERE handbook_id = $1 AND user_id = $2
	`
	ct, err := r.pool.Exec(ctx, query, handbookID, userID)
	if err != nil {
		return fmt.Errorf("remove member failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrMemberNotFound
	}
	return nil
}

func (r *pgxRepository) ListMembers(ctx context.Context, handbookID string, filter MemberFilter) ([]*Member, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	offset := (filter.Page - 1) * filter.PageSize

	const query = `
		SELECT hm.user_id, u.email, u.display_name, hm.role, hm.created_at,
		       count(*) OVER() as total_count
		FROM public.handbook_members hm
		JOIN public.users u ON hm.user_id = u.id
		WHERE hm.handbook_id = $1
		ORDER BY hm.created_at ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.pool.Query(ctx, query, handbookID, filter.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list members failed: %w", err)
	}
	defer rows.Close()

	var members []*Member
	var total int

	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.Email, &m.DisplayName, &m.Role, &m.JoinedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("scan member failed: %w", err)
		}
		members = append(members, &m)
	}

	return members, total, nil
}
