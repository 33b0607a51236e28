package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id string) (*Document, error)
	List(ctx context.Context, filter Filter) ([]*Document, int, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const documentColumns = `d.id, d.handbook_id, d.uploader_user_id, u.display_name,
	d.filename, d.storage_path, d.thumbnail_path, d.content_type, d.size, d.created_at`

func scanDocument(row pgx.Row, d *Document, extra ...any) error {
	dest := []any{
		&d.ID, &d.HandbookID, &d.UploaderUserID, &d.UploaderName,
		&d.Filename, &d.StoragePath, &d.ThumbnailPath, &d.ContentType, &d.Size, &d.CreatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *pgxRepository) Create(ctx context.Context, d *Document) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.documents").
		Columns("id", "handbook_id", "uploader_user_id", "filename",
			"storage_path", "thumbnail_path", "content_type", "size").
		Values(d.ID, d.HandbookID, d.UploaderUserID, d.Filename,
			d.StoragePath, d.ThumbnailPath, d.ContentType, d.Size).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create document query failed: %w", err)
	}

	return r.pool.QueryRow(ctx, query, args...).Scan(&d.CreatedAt)
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Document, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(documentColumns).
		From("public.documents d").
		Join("public.users u ON d.uploader_user_id = u.id").
		Where(squirrel.Eq{"d.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get document query failed: %w", err)
	}

	var d Document
	if err := scanDocument(r.pool.QueryRow(ctx, query, args...), &d); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get document failed: %w", err)
	}
	return &d, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Document, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(documentColumns, "count(*) OVER() as total_count").
		From("public.documents d").
		Join("public.users u ON d.uploader_user_id = u.id").
		OrderBy("d.created_at DESC")

	if filter.HandbookID != "" {
		query = query.Where(squirrel.Eq{"d.handbook_id": filter.HandbookID})
	}

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
		return nil, 0, fmt.Errorf("build list documents query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list documents failed: %w", err)
	}
	defer rows.Close()

	var docs []*Document
	var total int
	for rows.Next() {
		var d Document
		if err := scanDocument(rows, &d, &total); err != nil {
			return nil, 0, fmt.Errorf("scan document failed: %w", err)
		}
		docs = append(docs, &d)
	}
	return docs, total, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.documents").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete document query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete document failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
