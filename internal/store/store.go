// Package store opens the book repository selected by STORE_DRIVER.
package store

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"booklog/internal/book"
	"booklog/internal/config"
	"booklog/internal/platform/supabase"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = 2 * time.Second

// Open returns the repository for cfg.Driver and a func that releases it.
func Open(ctx context.Context, cfg *config.Config) (book.Repository, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := openDB(ctx, cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		return book.NewPostgresRepo(pool, cfg.Timeout), pool.Close, nil
	case config.DriverSupabase:
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.AnonKey, cfg.Timeout)
		log.Printf("using supabase store: url=%s", cfg.Supabase.URL)
		return book.NewSupabaseRepo(client), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// MustOpen is like Open but exits on failure.
func MustOpen(ctx context.Context, cfg *config.Config) (book.Repository, func()) {
	repo, closeFn, err := Open(ctx, cfg)
	if err != nil {
		log.Fatalf("cannot open store: %v", err)
	}
	return repo, closeFn
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", RedactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool, nil
}

// RedactDSN hides the credentials of a URL-style DSN.
func RedactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
