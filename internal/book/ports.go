package book

import (
	"context"
	"net/http"
)

//go:generate mockgen -source=ports.go -destination=mock_repository.go -package=book

// Repository defines the contract for the remote book store. Every method is
// a single round trip and is never retried.
type Repository interface {
	GetByID(ctx context.Context, id int64) (Book, error)
	ListByRead(ctx context.Context, read bool) ([]Book, error)
	ListOrdered(ctx context.Context, column Column) ([]Book, error)
	Insert(ctx context.Context, f Fields) (Book, error)
	Update(ctx context.Context, id int64, f Fields) (Book, error)
	Delete(ctx context.Context, id int64) error
	Ping(ctx context.Context) error
}

// Renderer writes a named HTML page.
type Renderer interface {
	Render(w http.ResponseWriter, status int, page string, data any) error
}
