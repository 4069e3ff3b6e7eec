package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jonathan/career-recommender/internal/types"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps history in a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// DefaultSQLitePath returns ~/.career_agent/history.db.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".career_agent", "history.db")
}

// OpenSQLite opens (or creates) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("history: mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open db: %w", err)
	}
	db.SetMaxOpenConns(1) // SQLite: single writer

	if err := initSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("history: init schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS history_entries (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		skills          TEXT NOT NULL,
		recommendations TEXT NOT NULL,
		created_at      TEXT NOT NULL DEFAULT ''
	)`)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_history_user ON history_entries(user_id, created_at)`)
	return err
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append inserts entry for uid. A repeated ID returns ErrDuplicateEntry and
// leaves the stored row untouched.
func (s *SQLiteStore) Append(ctx context.Context, uid string, entry types.HistoryEntry) error {
	if uid == "" {
		return ErrMissingUser
	}
	if entry.ID == "" {
		return ErrMissingID
	}

	recs, err := json.Marshal(entry.Recommendations)
	if err != nil {
		return fmt.Errorf("history: marshal recommendations: %w", err)
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO history_entries (id, user_id, skills, recommendations, created_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO NOTHING`,
		entry.ID, uid, entry.Skills, string(recs), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("history: insert: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("history: rows affected: %w", err)
	}
	if n == 0 {
		return ErrDuplicateEntry
	}
	return nil
}

// ListAll returns the entries for uid, newest first.
func (s *SQLiteStore) ListAll(ctx context.Context, uid string) ([]types.HistoryEntry, error) {
	if uid == "" {
		return nil, ErrMissingUser
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, skills, recommendations, created_at
		 FROM history_entries
		 WHERE user_id = ?
		 ORDER BY created_at DESC, rowid ASC`,
		uid,
	)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []types.HistoryEntry
	for rows.Next() {
		var (
			entry types.HistoryEntry
			recs  string
		)
		if err := rows.Scan(&entry.ID, &entry.Skills, &recs, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(recs), &entry.Recommendations); err != nil {
			return nil, fmt.Errorf("history: decode recommendations for %s: %w", entry.ID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: rows: %w", err)
	}
	return entries, nil
}
