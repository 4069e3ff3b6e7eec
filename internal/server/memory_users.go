package server

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/career-recommender/internal/db"
)

// MemoryUsers is a UserStore used when no database is configured.
type MemoryUsers struct {
	mu      sync.RWMutex
	byID    map[uuid.UUID]db.User
	byEmail map[string]uuid.UUID
	now     func() time.Time
}

// NewMemoryUsers returns an empty store.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:    make(map[uuid.UUID]db.User),
		byEmail: make(map[string]uuid.UUID),
		now:     time.Now,
	}
}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (m *MemoryUsers) CheckEmailExists(_ context.Context, email string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.byEmail[emailKey(email)]
	return ok, nil
}

func (m *MemoryUsers) CreateUser(_ context.Context, name, email string) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := emailKey(email)
	if _, ok := m.byEmail[key]; ok {
		return uuid.Nil, fmt.Errorf("failed to create user: email %s taken", email)
	}

	now := m.now().UTC()
	u := db.User{ID: uuid.New(), Name: name, Email: email, CreatedAt: now, UpdatedAt: now}
	m.byID[u.ID] = u
	m.byEmail[key] = u.ID
	return u.ID, nil
}

func (m *MemoryUsers) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("user not found: %s", id)
	}
	u.PasswordHash = passwordHash
	u.PasswordSet = true
	u.UpdatedAt = m.now().UTC()
	m.byID[id] = u
	return nil
}

func (m *MemoryUsers) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (m *MemoryUsers) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[emailKey(email)]
	if !ok {
		return nil, nil
	}
	u := m.byID[id]
	return &u, nil
}
