package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore keeps corpora in a map. Used in tests and for single-process
// runs without a database.
type MemoryStore struct {
	mu      sync.RWMutex
	corpora map[string]Corpus
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{corpora: make(map[string]Corpus)}
}

// Save implements Store.
func (s *MemoryStore) Save(ctx context.Context, c *Corpus) error {
	if err := prepare(c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.corpora[c.ID]; ok {
		c.CreatedAt = existing.CreatedAt
	}
	s.corpora[c.ID] = *c
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Corpus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.corpora[id]
	if !ok {
		return nil, notFound(id)
	}
	return &c, nil
}

// List implements Store.
func (s *MemoryStore) List(ctx context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Info, 0, len(s.corpora))
	for _, c := range s.corpora {
		out = append(out, Info{
			ID:        c.ID,
			Name:      c.Name,
			NodeCount: c.NodeCount,
			EdgeCount: c.EdgeCount,
			CreatedAt: c.CreatedAt,
			UpdatedAt: c.UpdatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.corpora[id]; !ok {
		return notFound(id)
	}
	delete(s.corpora, id)
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
