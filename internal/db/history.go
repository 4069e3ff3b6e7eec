package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/career-recommender/internal/history"
	"github.com/jonathan/career-recommender/internal/types"
)

// Append stores entry for the user. An entry ID that the user already has
// returns history.ErrDuplicateEntry.
func (db *DB) Append(ctx context.Context, uid string, entry types.HistoryEntry) error {
	userID, err := parseUserID(uid)
	if err != nil {
		return err
	}
	if entry.ID == "" {
		return history.ErrMissingID
	}

	recs, err := json.Marshal(entry.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	result, err := db.pool.Exec(ctx,
		`INSERT INTO history_entries (user_id, id, skills, recommendations, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, id) DO NOTHING`,
		userID, entry.ID, entry.Skills, recs, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	if result.RowsAffected() == 0 {
		return history.ErrDuplicateEntry
	}
	return nil
}

// ListAll returns every entry for the user, newest first
func (db *DB) ListAll(ctx context.Context, uid string) ([]types.HistoryEntry, error) {
	userID, err := parseUserID(uid)
	if err != nil {
		return nil, err
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, skills, recommendations, created_at
		 FROM history_entries WHERE user_id = $1
		 ORDER BY created_at DESC, seq ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	entries := []types.HistoryEntry{}
	for rows.Next() {
		var (
			e    types.HistoryEntry
			recs []byte
		)
		if err := rows.Scan(&e.ID, &e.Skills, &recs, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history entry: %w", err)
		}
		if err := json.Unmarshal(recs, &e.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to decode history entry %s: %w", e.ID, err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

func parseUserID(uid string) (uuid.UUID, error) {
	if uid == "" {
		return uuid.Nil, history.ErrMissingUser
	}
	id, err := uuid.Parse(uid)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user id %q: %w", uid, err)
	}
	return id, nil
}
