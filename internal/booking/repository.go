package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id string) error

	// Replace cancels one booking and inserts its replacement in a single
	// transaction, so no moment exists where both hold the slot.
	Replace(ctx context.Context, oldID string, replacement *Booking) error

	// ListActiveForResource returns the non-cancelled bookings of a resource
	// that intersect [from, to), ordered by start time. Used for collision
	// checks and calendar rendering.
	ListActiveForResource(ctx context.Context, resourceID string, from, to time.Time) ([]*Booking, error)

	// CountActiveForUser counts a user's non-cancelled bookings of a resource
	// starting within [from, to). Backs the weekly quota rule.
	CountActiveForUser(ctx context.Context, resourceID, userID string, from, to time.Time) (int, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

const bookingColumns = `b.id, r.handbook_id, b.resource_id, r.name, b.user_id, u.display_name,
	b.purpose, b.attendee_count, b.contact_phone, b.notes,
	b.start_time, b.end_time, b.status, b.created_at, b.updated_at`

func scanBooking(row pgx.Row, b *Booking, extra ...any) error {
	dest := []any{
		&b.ID, &b.HandbookID, &b.ResourceID, &b.ResourceName, &b.UserID, &b.UserName,
		&b.Purpose, &b.AttendeeCount, &b.ContactPhone, &b.Notes,
		&b.StartTime, &b.EndTime, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("resource_id", "user_id", "purpose", "attendee_count",
			"contact_phone", "notes", "start_time", "end_time", "status").
		Values(b.ResourceID, b.UserID, b.Purpose, b.AttendeeCount,
			b.ContactPhone, b.Notes, b.StartTime, b.EndTime, b.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		// The bookings table carries an exclusion constraint over
		// (resource_id, tstzrange(start_time, end_time)). It is the final
		// authority when two clients race past the application-level check.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
			return &CollisionError{}
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.resources r ON b.resource_id = r.id").
		Join("public.users u ON b.user_id = u.id").
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var b Booking
	if err := scanBooking(r.pool.QueryRow(ctx, query, args...), &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return &b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns, "count(*) OVER() as total_count").
		From("public.bookings b").
		Join("public.resources r ON b.resource_id = r.id").
		Join("public.users u ON b.user_id = u.id")

	if filter.HandbookID != "" {
		query = query.Where(squirrel.Eq{"r.handbook_id": filter.HandbookID})
	}
	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"b.resource_id": filter.ResourceID})
	}
	if filter.UserID != "" {
		query = query.Where(squirrel.Eq{"b.user_id": filter.UserID})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"b.status": filter.Status})
	}
	// Window filtering uses intersection, not containment, so bookings
	// straddling a boundary still show up.
	if filter.From != nil {
		query = query.Where(squirrel.Gt{"b.end_time": filter.From})
	}
	if filter.To != nil {
		query = query.Where(squirrel.Lt{"b.start_time": filter.To})
	}

	query = query.OrderBy("b.start_time ASC")

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
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	var total int
	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b, &total); err != nil {
			return nil, 0, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, total, nil
}

func (r *pgxRepository) ListActiveForResource(ctx context.Context, resourceID string, from, to time.Time) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select(bookingColumns).
		From("public.bookings b").
		Join("public.resources r ON b.resource_id = r.id").
		Join("public.users u ON b.user_id = u.id").
		Where(squirrel.Eq{"b.resource_id": resourceID}).
		Where(squirrel.NotEq{"b.status": StatusCancelled}).
		Where(squirrel.Lt{"b.start_time": to}).
		Where(squirrel.Gt{"b.end_time": from}).
		OrderBy("b.start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build active bookings query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list active bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var b Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		bookings = append(bookings, &b)
	}
	return bookings, nil
}

func (r *pgxRepository) CountActiveForUser(ctx context.Context, resourceID, userID string, from, to time.Time) (int, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	sql, args, err := psql.Select("count(*)").
		From("public.bookings").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		Where(squirrel.GtOrEq{"start_time": from}).
		Where(squirrel.Lt{"start_time": to}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build booking count query failed: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count bookings failed: %w", err)
	}
	return count, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.bookings").
		Set("purpose", b.Purpose).
		Set("attendee_count", b.AttendeeCount).
		Set("contact_phone", b.ContactPhone).
		Set("notes", b.Notes).
		Set("status", b.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Replace(ctx context.Context, oldID string, replacement *Booking) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace booking tx failed: %w", err)
	}
	defer tx.Rollback(ctx)

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Update("public.bookings").
		Set("status", StatusCancelled).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": oldID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build cancel booking query failed: %w", err)
	}
	ct, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("cancel booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}

	query, args, err = psql.Insert("public.bookings").
		Columns("resource_id", "user_id", "purpose", "attendee_count",
			"contact_phone", "notes", "start_time", "end_time", "status").
		Values(replacement.ResourceID, replacement.UserID, replacement.Purpose,
			replacement.AttendeeCount, replacement.ContactPhone, replacement.Notes,
			replacement.StartTime, replacement.EndTime, replacement.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build replacement booking query failed: %w", err)
	}
	err = tx.QueryRow(ctx, query, args...).
		Scan(&replacement.ID, &replacement.CreatedAt, &replacement.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ExclusionViolation {
			return &CollisionError{}
		}
		return fmt.Errorf("insert replacement booking failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace booking tx failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
