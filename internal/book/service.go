package book

import (
	"context"
)

// Service provides book-related business logic.
type Service struct {
	repo Repository
}

// NewService creates a new book service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns the book with the given id.
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns every book ordered by column.
func (s *Service) List(ctx context.Context, column Column) ([]Book, error) {
	if !column.Valid() {
		return nil, ErrInvalidColumn
	}
	return s.repo.ListOrdered(ctx, column)
}

// ListByRead returns the books whose read flag equals read, ordered by id.
func (s *Service) ListByRead(ctx context.Context, read bool) ([]Book, error) {
	return s.repo.ListByRead(ctx, read)
}

// Save inserts a new book when id is nil. Otherwise it checks that the book
// exists and overwrites it. created reports which of the two happened.
func (s *Service) Save(ctx context.Context, id *int64, f Fields) (saved Book, created bool, err error) {
	if id == nil {
		saved, err = s.repo.Insert(ctx, f)
		return saved, true, err
	}

	if _, err := s.repo.GetByID(ctx, *id); err != nil {
		return Book{}, false, err
	}
	saved, err = s.repo.Update(ctx, *id, f)
	return saved, false, err
}

// Delete checks that the book exists, then removes it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Overwrite replaces every writable column of the book without checking for
// it first. ErrNotFound is returned when no row matched.
func (s *Service) Overwrite(ctx context.Context, id int64, f Fields) (Book, error) {
	return s.repo.Update(ctx, id, f)
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
