package history

import (
	"context"
	"sync"

	"github.com/jonathan/career-recommender/internal/types"
)

// MemoryStore keeps history in process memory. It is used by tests and by
// the server when no database is configured.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string][]types.HistoryEntry
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string][]types.HistoryEntry)}
}

// Append stores entry for uid.
func (s *MemoryStore) Append(_ context.Context, uid string, entry types.HistoryEntry) error {
	if uid == "" {
		return ErrMissingUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.entries[uid] {
		if entry.ID != "" && existing.ID == entry.ID {
			return ErrDuplicateEntry
		}
	}
	s.entries[uid] = append(s.entries[uid], entry)
	return nil
}

// ListAll returns the entries for uid in insertion order.
func (s *MemoryStore) ListAll(_ context.Context, uid string) ([]types.HistoryEntry, error) {
	if uid == "" {
		return nil, ErrMissingUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.HistoryEntry, len(s.entries[uid]))
	copy(out, s.entries[uid])
	return out, nil
}
