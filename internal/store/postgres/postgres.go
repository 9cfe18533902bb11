// Package postgres implements the credential store on PostgreSQL via the pgx
// stdlib driver. This is the hosted-profile deployment tier.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/podgenius/podgenius-server/internal/model"
	"github.com/podgenius/podgenius-server/internal/store"
)

const ddl = `
CREATE TABLE IF NOT EXISTS user_records (
    user_id TEXT PRIMARY KEY,
    record  JSONB NOT NULL
);`

type pgStore struct{ db *sql.DB }

// Open connects, verifies connectivity, and bootstraps the schema.
func Open(dsn string) (store.Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(ddl); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &pgStore{db: db}, nil
}

// NewWithDB wires the store over an existing connection (tests, pooling).
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

func (s *pgStore) Get(ctx context.Context, userID string) (*model.UserRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT record FROM user_records WHERE user_id = $1`, userID)
	return scanRecord(row)
}

func (s *pgStore) Update(ctx context.Context, userID string, patch model.UserPatch) (*model.UserRecord, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// Row lock serializes racing updates for the same id within this store;
	// the merge itself is still last-writer-wins at the field level.
	row := tx.QueryRowContext(ctx, `SELECT record FROM user_records WHERE user_id = $1 FOR UPDATE`, userID)
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
        INSERT INTO user_records (user_id, record) VALUES ($1, $2)
        ON CONFLICT (user_id) DO UPDATE SET record = EXCLUDED.record`,
		userID, data)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return merged, nil
}

func (s *pgStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *pgStore) Close() error { return s.db.Close() }

func scanRecord(row *sql.Row) (*model.UserRecord, error) {
	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	var rec model.UserRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
