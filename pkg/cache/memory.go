package cache

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an embedded cache backend for single-node deployments
// and tests. Same staleness rules as the Redis backend.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, propertyID string) (*Entry, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[propertyID]
	if !ok {
		return nil, false, nil
	}
	if s.now().Sub(entry.ComputedAt) >= s.ttl {
		delete(s.entries, propertyID)
		return nil, false, nil
	}

	out := entry
	return &out, true, nil
}

func (s *MemoryStore) Put(_ context.Context, propertyID string, dates []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := make([]string, len(dates))
	copy(copied, dates)

	s.entries[propertyID] = Entry{
		BlockedDates: copied,
		ComputedAt:   s.now(),
	}
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, propertyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, propertyID)
	return nil
}
