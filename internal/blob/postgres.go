package blob

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of *pgxpool.Pool the Postgres store needs.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
	key          TEXT PRIMARY KEY,
	data         BYTEA NOT NULL,
	content_type TEXT NOT NULL DEFAULT '',
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Postgres keeps documents in a single "documents" table, one row per key.
type Postgres struct {
	db DBTX
}

// NewPostgres ensures the documents table exists and returns the store.
func NewPostgres(ctx context.Context, db DBTX) (*Postgres, error) {
	if _, err := db.Exec(ctx, createDocumentsTable); err != nil {
		return nil, fmt.Errorf("blob postgres: create table: %w", err)
	}
	return &Postgres{db: db}, nil
}

// OpenPostgres parses the URL, connects a pool and verifies it with a ping.
func OpenPostgres(ctx context.Context, url string, maxConns int) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("blob postgres: parse url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("blob postgres: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("blob postgres: ping: %w", err)
	}
	return pool, nil
}

func (s *Postgres) Name() string { return "postgres" }

func (s *Postgres) Get(ctx context.Context, key string) (Object, error) {
	var obj Object
	err := s.db.QueryRow(ctx,
		`SELECT data, content_type, updated_at FROM documents WHERE key = $1`, key,
	).Scan(&obj.Data, &obj.ContentType, &obj.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Object{}, ErrNotFound
	}
	if err != nil {
		return Object{}, fmt.Errorf("blob postgres: get %s: %w", key, err)
	}
	return obj, nil
}

func (s *Postgres) Put(ctx context.Context, key string, obj Object) error {
	updated := obj.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO documents (key, data, content_type, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE
		SET data = EXCLUDED.data,
		    content_type = EXCLUDED.content_type,
		    updated_at = EXCLUDED.updated_at`,
		key, obj.Data, obj.ContentType, updated,
	)
	if err != nil {
		return fmt.Errorf("blob postgres: put %s: %w", key, err)
	}
	return nil
}
