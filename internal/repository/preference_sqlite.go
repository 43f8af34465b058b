package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const preferencesSchema = `
CREATE TABLE IF NOT EXISTS preferences (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLitePreferenceRepository stores preferences in a local SQLite table.
type SQLitePreferenceRepository struct {
	db *sql.DB
}

// NewSQLitePreferenceRepository ensures the schema exists and returns a repository.
func NewSQLitePreferenceRepository(ctx context.Context, db *sql.DB) (*SQLitePreferenceRepository, error) {
	if _, err := db.ExecContext(ctx, preferencesSchema); err != nil {
		return nil, fmt.Errorf("ensure preferences schema: %w", err)
	}
	return &SQLitePreferenceRepository{db: db}, nil
}

func (r *SQLitePreferenceRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM preferences WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrPreferenceNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get preference %s: %w", key, err)
	}
	return value, nil
}

func (r *SQLitePreferenceRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("set preference %s: %w", key, err)
	}
	return nil
}
