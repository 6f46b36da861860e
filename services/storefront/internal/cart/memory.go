package cart

import (
	"context"
	"sync"
)

// MemoryStore keeps carts in process memory. Used when no redis address is
// configured and in tests.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string]Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string]Cart)}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(Cart, len(s.carts[sessionID]))
	for k, v := range s.carts[sessionID] {
		out[k] = v
	}
	return out, nil
}

func (s *MemoryStore) Add(_ context.Context, sessionID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[sessionID]
	if !ok {
		c = make(Cart)
		s.carts[sessionID] = c
	}
	c[productID]++
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, sessionID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts[sessionID], productID)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}
