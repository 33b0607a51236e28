package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines storage operations for handbook content.
type Repository interface {
	CreateSection(ctx context.Context, s *Section) error
	GetSection(ctx context.Context, id string) (*Section, error)
	ListSections(ctx context.Context, filter SectionFilter) ([]*Section, error)
	UpdateSection(ctx context.Context, s *Section) error
	DeleteSection(ctx context.Context, id string) error

	CreatePage(ctx context.Context, p *Page) error
	GetPage(ctx context.Context, id string) (*Page, error)
	ListPages(ctx context.Context, filter PageFilter) ([]*Page, error)
	UpdatePage(ctx context.Context, p *Page) error
	DeletePage(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

// NewPgxRepository creates a Repository backed by pgxpool.
func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func (r *pgxRepository) CreateSection(ctx context.Context, s *Section) error {
	const query = `
		INSERT INTO public.sections (handbook_id, title, description, order_index, published)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		s.HandbookID, s.Title, s.Description, s.OrderIndex, s.Published,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create section failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetSection(ctx context.Context, id string) (*Section, error) {
	const query = `
		SELECT id, handbook_id, title, description, order_index, published, created_at, updated_at
		FROM public.sections
		WHERE id = $1
	`
	var s Section
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.HandbookID, &s.Title, &s.Description, &s.OrderIndex,
		&s.Published, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("get section failed: %w", err)
	}
	return &s, nil
}

func (r *pgxRepository) ListSections(ctx context.Context, filter SectionFilter) ([]*Section, error) {
	query := `
		SELECT id, handbook_id, title, description, order_index, published, created_at, updated_at
		FROM public.sections
		WHERE handbook_id = $1
	`
	if filter.PublishedOnly {
		query += " AND published = true"
	}
	query += " ORDER BY order_index ASC, created_at ASC"

	rows, err := r.pool.Query(ctx, query, filter.HandbookID)
	if err != nil {
		return nil, fmt.Errorf("list sections failed: %w", err)
	}
	defer rows.Close()

	var sections []*Section
	for rows.Next() {
		var s Section
		if err := rows.Scan(
			&s.ID, &s.HandbookID, &s.Title, &s.Description, &s.OrderIndex,
			&s.Published, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan section failed: %w", err)
		}
		sections = append(sections, &s)
	}
	return sections, nil
}

func (r *pgxRepository) UpdateSection(ctx context.Context, s *Section) error {
	const query = `
		UPDATE public.sections
		SET title = $1, description = $2, order_index = $3, published = $4, updated_at = now()
		WHERE id = $5
	`
	ct, err := r.pool.Exec(ctx, query, s.Title, s.Description, s.OrderIndex, s.Published, s.ID)
	if err != nil {
		return fmt.Errorf("update section failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrSectionNotFound
	}
	return nil
}

func (r *pgxRepository) DeleteSection(ctx context.Context, id string) error {
	const query = `DELETE FROM public.sections WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete section failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrSectionNotFound
	}
	return nil
}

func (r *pgxRepository) CreatePage(ctx context.Context, p *Page) error {
	const query = `
		INSERT INTO public.pages (section_id, handbook_id, title, content, order_index, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		p.SectionID, p.HandbookID, p.Title, p.Content, p.OrderIndex, p.Published,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create page failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetPage(ctx context.Context, id string) (*Page, error) {
	const query = `
		SELECT id, section_id, handbook_id, title, content, order_index, published, created_at, updated_at
		FROM public.pages
		WHERE id = $1
	`
	var p Page
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.SectionID, &p.HandbookID, &p.Title, &p.Content,
		&p.OrderIndex, &p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("get page failed: %w", err)
	}
	return &p, nil
}

func (r *pgxRepository) ListPages(ctx context.Context, filter PageFilter) ([]*Page, error) {
	query := `
		SELECT id, section_id, handbook_id, title, content, order_index, published, created_at, updated_at
		FROM public.pages
		WHERE section_id = $1
	`
	if filter.PublishedOnly {
		query += " AND published = true"
	}
	query += " ORDER BY order_index ASC, created_at ASC"

	rows, err := r.pool.Query(ctx, query, filter.SectionID)
	if err != nil {
		return nil, fmt.Errorf("list pages failed: %w", err)
	}
	defer rows.Close()

	var pages []*Page
	for rows.Next() {
		var p Page
		if err := rows.Scan(
			&p.ID, &p.SectionID, &p.HandbookID, &p.Title, &p.Content,
			&p.OrderIndex, &p.Published, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan page failed: %w", err)
		}
		pages = append(pages, &p)
	}
	return pages, nil
}

func (r *pgxRepository) UpdatePage(ctx context.Context, p *Page) error {
	const query = `
		UPDATE public.pages
		SET title = $1, content = $2, order_index = $3, published = $4, updated_at = now()
		WHERE id = $5
	`
	ct, err := r.pool.Exec(ctx, query, p.Title, p.Content, p.OrderIndex, p.Published, p.ID)
	if err != nil {
		return fmt.Errorf("update page failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrPageNotFound
	}
	return nil
}

func (r *pgxRepository) DeletePage(ctx context.Context, id string) error {
	const query = `DELETE FROM public.pages WHERE id = $1`
	ct, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete page failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrPageNotFound
	}
	return nil
}
