package book

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectBooks = `
	SELECT id, title, author, number_of_pages, publisher, year_published,
	       description, COALESCE("read", false)
	FROM books`

const returningBooks = `
	RETURNING id, title, author, number_of_pages, publisher, year_published,
	          description, COALESCE("read", false)`

// PostgresRepo reads and writes the books table over a direct database
// connection.
type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

func scanBook(row pgx.Row) (Book, error) {
	var b Book
	err := row.Scan(
		&b.ID, &b.Title, &b.Author, &b.NumberOfPages, &b.Publisher, &b.YearPublished,
		&b.Description, &b.Read,
	)
	return b, err
}

func (r *PostgresRepo) queryBooks(ctx context.Context, sql string, args ...any) ([]Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *PostgresRepo) queryBook(ctx context.Context, sql string, args ...any) (Book, error) {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	b, err := scanBook(r.db.QueryRow(timeoutCtx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	return r.queryBook(ctx, selectBooks+` WHERE id = $1`, id)
}

func (r *PostgresRepo) ListByRead(ctx context.Context, read bool) ([]Book, error) {
	return r.queryBooks(ctx, selectBooks+` WHERE COALESCE("read", false) = $1 ORDER BY id`, read)
}

func (r *PostgresRepo) ListOrdered(ctx context.Context, column Column) ([]Book, error) {
	if !column.Valid() {
		return nil, ErrInvalidColumn
	}
	// column is one of a fixed set, so it is safe to splice into the query.
	return r.queryBooks(ctx, selectBooks+` ORDER BY `+string(column)+`, id`)
}

func (r *PostgresRepo) Insert(ctx context.Context, f Fields) (Book, error) {
	const sql = `
		INSERT INTO books (title, author, number_of_pages, publisher, year_published, description, "read")
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	return r.queryBook(ctx, sql+returningBooks,
		f.Title, f.Author, f.NumberOfPages, f.Publisher, f.YearPublished, f.Description, f.Read,
	)
}

func (r *PostgresRepo) Update(ctx context.Context, id int64, f Fields) (Book, error) {
	const sql = `
		UPDATE books SET
			title = $1,
			author = $2,
			number_of_pages = $3,
			publisher = $4,
			year_published = $5,
			description = $6,
			"read" = $7
		WHERE id = $8`

	return r.queryBook(ctx, sql+returningBooks,
		f.Title, f.Author, f.NumberOfPages, f.Publisher, f.YearPublished, f.Description, f.Read, id,
	)
}

func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	_, err := r.db.Exec(timeoutCtx, `DELETE FROM books WHERE id = $1`, id)
	return err
}

func (r *PostgresRepo) Ping(ctx context.Context) error {
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.Ping(timeoutCtx)
}
