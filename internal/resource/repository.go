package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage operations for resources.
type Repository interface {
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, res *Resource) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Repository backed by pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) Create(ctx context.Context, res *Resource) error {
	restrictions, err := json.Marshal(res.TimeRestrictions)
	if err != nil {
		return fmt.Errorf("marshal time restrictions failed: %w", err)
	}
	rules, err := json.Marshal(res.BookingRules)
	if err != nil {
		return fmt.Errorf("marshal booking rules failed: %w", err)
	}

	const query = `
		INSERT INTO public.resources
			(handbook_id, name, description, capacity, category, max_duration_hours,
			 is_active, time_restrictions, booking_rules)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	err = r.pool.QueryRow(ctx, query,
		res.HandbookID, res.Name, res.Description, res.Capacity, res.Category,
		res.MaxDurationHours, res.IsActive, restrictions, rules,
	).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create resource failed: %w", err)
	}
	return nil
}

func scanResource(row pgx.Row) (*Resource, error) {
	var res Resource
	var restrictionsJSON, rulesJSON []byte

	if err := row.Scan(
		&res.ID, &res.HandbookID, &res.Name, &res.Description, &res.Capacity,
		&res.Category, &res.MaxDurationHours, &res.IsActive,
		&restrictionsJSON, &rulesJSON, &res.CreatedAt, &res.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan resource failed: %w", err)
	}

	if len(restrictionsJSON) > 0 {
		if err := json.Unmarshal(restrictionsJSON, &res.TimeRestrictions); err != nil {
			return nil, fmt.Errorf("unmarshal time restrictions failed: %w", err)
		}
	}
	if len(rulesJSON) > 0 {
		if err := json.Unmarshal(rulesJSON, &res.BookingRules); err != nil {
			return nil, fmt.Errorf("unmarshal booking rules failed: %w", err)
		}
	}

	return &res, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Resource, error) {
	const query = `
		SELECT id, handbook_id, name, description, capacity, category, max_duration_hours,
		       is_active, time_restrictions, booking_rules, created_at, updated_at
		FROM public.resources
		WHERE id = $1
	`
	return scanResource(r.pool.QueryRow(ctx, query, id))
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(
		"id", "handbook_id", "name", "description", "capacity", "category",
		"max_duration_hours", "is_active", "time_restrictions", "booking_rules",
		"created_at", "updated_at",
		"count(*) OVER() as total_count",
	).From("public.resources")

	if filter.HandbookID != "" {
		query = query.Where(squirrel.Eq{"handbook_id": filter.HandbookID})
	}
	if filter.Category != "" {
		query = query.Where(squirrel.Eq{"category": filter.Category})
	}
	if filter.ActiveOnly {
		query = query.Where(squirrel.Eq{"is_active": true})
	}

	query = query.OrderBy("name ASC")

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	offset := (filter.Page - 1) * filter.PageSize
	query = query.Limit(uint64(filter.PageSize)).Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list resources query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list resources failed: %w", err)
	}
	defer rows.Close()

	var resources []*Resource
	var total int

	for rows.Next() {
		var res Resource
		var restrictionsJSON, rulesJSON []byte
		if err := rows.Scan(
			&res.ID, &res.HandbookID, &res.Name, &res.Description, &res.Capacity,
			&res.Category, &res.MaxDurationHours, &res.IsActive,
			&restrictionsJSON, &rulesJSON, &res.CreatedAt, &res.UpdatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("scan resource failed: %w", err)
		}
		if len(restrictionsJSON) > 0 {
			if err := json.Unmarshal(restrictionsJSON, &res.TimeRestrictions); err != nil {
				return nil, 0, fmt.Errorf("unmarshal time restrictions failed: %w", err)
			}
		}
		if len(rulesJSON) > 0 {
			if err := json.Unmarshal(rulesJSON, &res.BookingRules); err != nil {
				return nil, 0, fmt.Errorf("unmarshal booking rules failed: %w", err)
			}
		}
		resources = append(resources, &res)
	}

	return resources, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, res *Resource) error {
	restrictions, err := json.Marshal(res.TimeRestrictions)
	if err != nil {
		return fmt.Errorf("marshal time restrictions failed: %w", err)
	}
	rules, err := json.Marshal(res.BookingRules)
	if err != nil {
		return fmt.Errorf("marshal booking rules failed: %w", err)
	}

	const query = `
		UPDATE public.resources
		SET name = $1, description = $2, capacity = $3, category = $4,
		    max_duration_hours = $5, is_active = $6, time_restrictions = $7,
		    booking_rules = $8, updated_at = now()
		WHERE id = $9
	`
	ct, err := r.pool.Exec(ctx, query,
		res.Name, res.Description, res.Capacity, res.Category,
		res.MaxDurationHours, res.IsActive, restrictions, rules, res.ID)
	if err != nil {
		return fmt.Errorf("update resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM public.resources WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
