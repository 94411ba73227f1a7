package store

import (
	"context"
	"sync"

	"github.com/samber/mo"
)

// MemoryStore is a process-local ConversationStore. It backs tests and the
// default dev setup; tokens do not survive a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]string)}
}

func (s *MemoryStore) GetContinuationToken(ctx context.Context, key string) (mo.Option[string], error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[key]
	if !ok {
		return mo.None[string](), nil
	}
	return mo.Some(token), nil
}

func (s *MemoryStore) SetContinuationToken(ctx context.Context, key, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tokens[key] = token
	return nil
}
