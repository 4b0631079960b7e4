package book

import (
	"context"
	"errors"

	"booklog/internal/platform/supabase"
)

const (
	booksTable   = "books"
	booksColumns = "id,title,author,publisher,year_published,number_of_pages,description,read"
)

// errEmptyInsert is returned when the store accepts an insert but sends no
// row back.
var errEmptyInsert = errors.New("insert returned no rows")

// SupabaseRepo reads and writes the books table through PostgREST.
type SupabaseRepo struct {
	client *supabase.Client
}

func NewSupabaseRepo(client *supabase.Client) *SupabaseRepo {
	return &SupabaseRepo{client: client}
}

func (r *SupabaseRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	var b Book
	err := r.client.Select(ctx, booksTable, supabase.Query{
		Columns: booksColumns,
		Filters: []supabase.Filter{supabase.Eq("id", id)},
		Single:  true,
	}, &b)
	if err != nil {
		var apiErr *supabase.Error
		if errors.As(err, &apiErr) && apiErr.NoRows() {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *SupabaseRepo) ListByRead(ctx context.Context, read bool) ([]Book, error) {
	var out []Book
	err := r.client.Select(ctx, booksTable, supabase.Query{
		Columns: booksColumns,
		Filters: []supabase.Filter{supabase.Eq("read", read)},
		Order:   []string{string(ColumnID)},
	}, &out)
	return out, err
}

func (r *SupabaseRepo) ListOrdered(ctx context.Context, column Column) ([]Book, error) {
	if !column.Valid() {
		return nil, ErrInvalidColumn
	}
	// id breaks ties so both drivers return the same order.
	order := []string{string(column)}
	if column != ColumnID {
		order = append(order, string(ColumnID))
	}
	var out []Book
	err := r.client.Select(ctx, booksTable, supabase.Query{
		Columns: booksColumns,
		Order:   order,
	}, &out)
	return out, err
}

func (r *SupabaseRepo) Insert(ctx context.Context, f Fields) (Book, error) {
	var out []Book
	if err := r.client.Insert(ctx, booksTable, f, &out); err != nil {
		return Book{}, err
	}
	if len(out) == 0 {
		return Book{}, errEmptyInsert
	}
	return out[0], nil
}

func (r *SupabaseRepo) Update(ctx context.Context, id int64, f Fields) (Book, error) {
	var out []Book
	if err := r.client.Update(ctx, booksTable, []supabase.Filter{supabase.Eq("id", id)}, f, &out); err != nil {
		return Book{}, err
	}
	if len(out) == 0 {
		return Book{}, ErrNotFound
	}
	return out[0], nil
}

func (r *SupabaseRepo) Delete(ctx context.Context, id int64) error {
	return r.client.Delete(ctx, booksTable, []supabase.Filter{supabase.Eq("id", id)})
}

func (r *SupabaseRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
