// Package sqlite implements the credential store on a local SQLite database
// using the modernc driver (no cgo).
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	_ "modernc.org/sqlite"

	"github.com/podgenius/podgenius-server/internal/model"
	"github.com/podgenius/podgenius-server/internal/store"
)

const ddl = `
CREATE TABLE IF NOT EXISTS user_records (
    user_id TEXT PRIMARY KEY,
    record  TEXT NOT NULL
);`

type SqliteStore struct {
	db *sql.DB
}

// New opens (or creates) the database file and bootstraps the schema.
func New(path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Single writer at a time keeps update merges well ordered.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(ddl); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SqliteStore{db: db}, nil
}

// DB exposes the underlying connection (local tooling only).
func (s *SqliteStore) DB() *sql.DB { return s.db }

func (s *SqliteStore) Get(ctx context.Context, userID string) (*model.UserRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT record FROM user_records WHERE user_id = ?`, userID)
	return scanRecord(row)
}

func (s *SqliteStore) Update(ctx context.Context, userID string, patch model.UserPatch) (*model.UserRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT record FROM user_records WHERE user_id = ?`, userID)
	current, err := scanRecord(row)
	if err != nil {
		return nil, err
	}

	merged := model.Merge(userID, current, patch)
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, err
	}
	_, err = tx.ExecContext(ctx, `
        INSERT INTO user_records (user_id, record) VALUES (?, ?)
        ON CONFLICT(user_id) DO UPDATE SET record = excluded.record`,
		userID, string(data))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *SqliteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *SqliteStore) Close() error { return s.db.Close() }

func scanRecord(row *sql.Row) (*model.UserRecord, error) {
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var rec model.UserRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
