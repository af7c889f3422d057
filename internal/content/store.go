package content

import (
	"sync"
	"time"
)

// Store holds the catalog currently being served. Readers always see a
// complete catalog; Swap replaces it atomically.
type Store struct {
	mu        sync.RWMutex
	catalog   *Catalog
	updatedAt time.Time
}

func NewStore(c *Catalog) *Store {
	return &Store{catalog: c, updatedAt: time.Now()}
}

// Catalog returns the current catalog. Callers must not mutate it.
func (s *Store) Catalog() *Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// UpdatedAt reports when the catalog was last swapped in.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

func (s *Store) Swap(c *Catalog) {
	s.mu.Lock()
	s.catalog = c
	s.updatedAt = time.Now()
	s.mu.Unlock()
}
