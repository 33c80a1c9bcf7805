package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DefaultDBPath returns the default Lifequest DB location.
func DefaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(homeDir, ".lifequest.db"), nil
}

// SQLiteStore keeps one serialized state document per user profile.
type SQLiteStore struct {
	db *sql.DB
}

// Open opens (and creates if missing) the SQLite database at the provided
// path and ensures the schema exists.
func Open(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			user_key TEXT PRIMARY KEY,
			doc TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context, userKey string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT doc FROM profiles WHERE user_key = ?`, userKey)
	var doc string
	if err := row.Scan(&doc); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("profile load: %w", err)
	}
	return []byte(doc), nil
}

func (s *SQLiteStore) Save(ctx context.Context, userKey string, doc []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profiles (user_key, doc, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_key) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at
	`, userKey, string(doc), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("profile save: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, userKey string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE user_key = ?`, userKey)
	if err != nil {
		return fmt.Errorf("profile delete: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
