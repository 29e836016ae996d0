package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
)

const kvTable = "kv_entries"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// PostgresStore implements Store on a single PostgreSQL table
type PostgresStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewPostgresStore creates a new PostgresStore
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, now: time.Now}
}

// Open connects to PostgreSQL and verifies the connection
func Open(ctx context.Context, databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return db, nil
}

// Get retrieves the value stored under namespace/key
func (s *PostgresStore) Get(ctx context.Context, namespace, key string) ([]byte, error) {
	query, args, err := psql.
		Select("value").
		From(kvTable).
		Where("namespace = ? AND name = ?", namespace, key).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	var value []byte
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", namespace, key, err)
	}

	return value, nil
}

// Put upserts the value stored under namespace/key
func (s *PostgresStore) Put(ctx context.Context, namespace, key string, value []byte) error {
	query, args, err := psql.
		Insert(kvTable).
		Columns("namespace", "name", "value", "updated_at").
		Values(namespace, key, value, s.now().UTC()).
		Suffix("ON CONFLICT (namespace, name) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put %s/%s: %w", namespace, key, err)
	}

	return nil
}

// Delete removes namespace/key
func (s *PostgresStore) Delete(ctx context.Context, namespace, key string) error {
	query, args, err := psql.
		Delete(kvTable).
		Where("namespace = ? AND name = ?", namespace, key).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s/%s: %w", namespace, key, err)
	}

	return nil
}
