package session

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"exile-tracker/internal/domain"
)

// MemoryStore keeps sessions in process memory with automatic expiry.
// Suitable for single-instance deployments and tests.
type MemoryStore struct {
	c *cache.Cache
}

// NewMemoryStore creates an in-memory session store. Expired entries
// are swept at twice the TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{c: cache.New(ttl, 2*ttl)}
}

func (s *MemoryStore) Save(_ context.Context, build *domain.Build) error {
	if build.SessionID == "" {
		return fmt.Errorf("save session: empty session id")
	}
	// Store a copy to avoid external mutation.
	copy := *build
	s.c.SetDefault(build.SessionID, &copy)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*domain.Build, error) {
	v, ok := s.c.Get(sessionID)
	if !ok {
		return nil, ErrNotFound
	}
	copy := *v.(*domain.Build)
	return &copy, nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.c.Delete(sessionID)
	return nil
}
