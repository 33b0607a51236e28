package user

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	Create(ctx context.Context, u *User) error
	UpdateLastLogin(ctx context.Context, id string, t time.Time) error
	List(ctx context.Context, filter Filter) ([]*User, int, error)
	SetActive(ctx context.Context, id string, active bool) error
}

// membershipsSubquery aggregates the user's handbook memberships as a JSON
// array so a profile load is a single round trip.
const membershipsSubquery = `
	COALESCE(
		(
			SELECT json_agg(json_build_object('id', h.id, 'slug', h.slug, 'title', h.title, 'role', hm.role))
			FROM public.handbook_members hm
			JOIN public.handbooks h ON hm.handbook_id = h.id
			WHERE hm.user_id = u.id
		),
		'[]'::json
	) AS handbooks
`

type pgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a new Repository implementation using pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxUserRepository{
		pool: pool,
	}
}

func (r *pgxUserRepository) scanUser(row pgx.Row) (*User, error) {
	var u User
	var handbooksJSON []byte

	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.DisplayName,
		&u.Phone,
		&u.CreatedAt,
		&u.LastLoginAt,
		&u.IsActive,
		&u.IsSuperAdmin,
		&handbooksJSON,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan user failed: %w", err)
	}

	if len(handbooksJSON) > 0 {
		if err := json.Unmarshal(handbooksJSON, &u.Handbooks); err != nil {
			log.Printf("warning: failed to unmarshal handbooks for user %s: %v", u.ID, err)
		}
	}

	return &u, nil
}

func (r *pgxUserRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.display_name, u.phone,
		       u.created_at, u.last_login_at, u.is_active, u.is_super_admin,
		       ` + membershipsSubquery + `
		FROM public.users u
		WHERE u.email = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *pgxUserRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT u.id, u.email, u.password_hash, u.display_name, u.phone,
		       u.created_at, u.last_login_at, u.is_active, u.is_super_admin,
		       ` + membershipsSubquery + `
		FROM public.users u
		WHERE u.id = $1
	`
	return r.scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxUserRepository) Create(ctx context.Context, u *User) error {
	const query = `
		INSERT INTO public.users (email, password_hash, display_name, phone, is_active, is_super_admin)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(
		ctx,
		query,
		u.Email,
		u.PasswordHash,
		u.DisplayName,
		u.Phone,
		u.IsActive,
		u.IsSuperAdmin,
	).Scan(&u.ID, &u.CreatedAt); err != nil {
		var e *pgconn.PgError
		if errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation {
			return ErrEmailAlreadyUsed
		}
		return fmt.Errorf("create user failed: %w", err)
	}

	return nil
}

func (r *pgxUserRepository) List(ctx context.Context, filter Filter) ([]*User, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query := `
		SELECT u.id, u.email, u.password_hash, u.display_name, u.phone,
		       u.created_at, u.last_login_at, u.is_active, u.is_super_admin,
		       ` + membershipsSubquery + `,
		       count(*) OVER() AS total_count
		FROM public.users u
		WHERE ($1 = '' OR u.email ILIKE '%' || $1 || '%' OR u.display_name ILIKE '%' || $1 || '%')
		ORDER BY u.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, filter.Keyword, filter.PageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users failed: %w", err)
	}
	defer rows.Close()

	var users []*User
	var total int
	for rows.Next() {
		var u User
		var handbooksJSON []byte
		if err := rows.Scan(
			&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Phone,
			&u.CreatedAt, &u.LastLoginAt, &u.IsActive, &u.IsSuperAdmin,
			&handbooksJSON, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan user failed: %w", err)
		}
		if len(handbooksJSON) > 0 {
			if err := json.Unmarshal(handbooksJSON, &u.Handbooks); err != nil {
				log.Printf("warning: failed to unmarshal handbooks for user %s: %v", u.ID, err)
			}
		}
		users = append(users, &u)
	}
	return users, total, nil
}

func (r *pgxUserRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `
		UPDATE public.users
		SET is_active = $1
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, active, id)
	if err != nil {
		return fmt.Errorf("set user active failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxUserRepository) UpdateLastLogin(ctx context.Context, id string, t time.Time) error {
	const query = `
		UPDATE public.users
		SET last_login_at = $1
		WHERE id = $2
	`

	ct, err := r.pool.Exec(ctx, query, t, id)
	if err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
