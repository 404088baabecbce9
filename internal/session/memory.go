package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memoryEntry struct {
	userID    uint
	expiresAt time.Time
}

// MemoryStore in-process Store for single-instance deployments and tests
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	byUser  map[uint]map[string]struct{}
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore whose sessions idle out after ttl
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		byUser:  make(map[uint]map[string]struct{}),
		now:     time.Now,
	}
}

// Create implements Store
func (s *MemoryStore) Create(_ context.Context, userID uint) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	s.entries[id] = memoryEntry{userID: userID, expiresAt: s.now().Add(s.ttl)}
	ids, ok := s.byUser[userID]
	if !ok {
		ids = make(map[string]struct{})
		s.byUser[userID] = ids
	}
	ids[id] = struct{}{}
	return id, nil
}

// Get implements Store
func (s *MemoryStore) Get(_ context.Context, id string) (uint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[id]
	if !ok {
		return 0, ErrSessionNotFound
	}
	now := s.now()
	if !now.Before(entry.expiresAt) {
		s.remove(id, entry.userID)
		return 0, ErrSessionNotFound
	}
	entry.expiresAt = now.Add(s.ttl)
	s.entries[id] = entry
	return entry.userID, nil
}

// Delete implements Store
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.entries[id]; ok {
		s.remove(id, entry.userID)
	}
	return nil
}

// DeleteUser implements Store
func (s *MemoryStore) DeleteUser(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range s.byUser[userID] {
		delete(s.entries, id)
	}
	delete(s.byUser, userID)
	return nil
}

// Len counts live sessions
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweep()
	return len(s.entries)
}

// sweep drops expired entries; caller holds mu
func (s *MemoryStore) sweep() {
	now := s.now()
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			s.remove(id, e.userID)
		}
	}
}

// remove drops id from both indexes; caller holds mu
func (s *MemoryStore) remove(id string, userID uint) {
	delete(s.entries, id)
	if ids, ok := s.byUser[userID]; ok {
		delete(ids, id)
		if len(ids) == 0 {
			delete(s.byUser, userID)
		}
	}
}
