// Package history stores and lists per-user recommendation history.
package history

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/career-recommender/internal/types"
)

// TimestampLayout is the fixed-width UTC layout used for createdAt, so that
// string order matches time order.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// ErrDuplicateEntry is returned when an entry with the same ID already exists.
var ErrDuplicateEntry = errors.New("history entry already exists")

// ErrMissingID is returned when an entry without an ID is appended to a store
// that needs one.
var ErrMissingID = errors.New("history entry id is required")

// ErrMissingUser is returned when a store is called without a user ID.
var ErrMissingUser = errors.New("user id is required")

// Store persists history entries for a user. Entries are append-only.
type Store interface {
	Append(ctx context.Context, uid string, entry types.HistoryEntry) error
	ListAll(ctx context.Context, uid string) ([]types.HistoryEntry, error)
}

// Timestamp formats t with TimestampLayout.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// NewID returns a random entry ID.
func NewID() string {
	return uuid.NewString()
}

// NewEntry builds the entry stored for a fetched result.
func NewEntry(id string, result *types.RecommendationResult, now time.Time) types.HistoryEntry {
	careers := append([]types.CareerRecommendation(nil), result.Recommendations...)
	return types.HistoryEntry{
		ID:              id,
		Skills:          result.SkillsLabel,
		Recommendations: types.HistoryRecommendations{Careers: careers},
		CreatedAt:       Timestamp(now),
	}
}

// SortNewestFirst returns a copy of entries ordered by createdAt, newest
// first. A missing or unparseable createdAt sorts as least recent; ties keep
// input order.
func SortNewestFirst(entries []types.HistoryEntry) []types.HistoryEntry {
	out := make([]types.HistoryEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		return sortKey(out[i].CreatedAt) > sortKey(out[j].CreatedAt)
	})
	return out
}

// sortKey maps a createdAt that does not parse as RFC 3339 to "".
func sortKey(createdAt string) string {
	if _, err := time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return ""
	}
	return createdAt
}
