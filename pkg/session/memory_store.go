package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	userID    string
	expiresAt time.Time
}

// MemoryStore implements Store in process memory.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	now      func() time.Time
	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
}

// NewMemoryStore creates an in-memory store. A positive cleanupInterval starts
// a goroutine that sweeps expired entries; call Close to stop it.
func NewMemoryStore(cleanupInterval time.Duration) *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]memoryEntry),
		now:      time.Now,
		done:     make(chan struct{}),
	}

	if cleanupInterval > 0 {
		s.ticker = time.NewTicker(cleanupInterval)
		go s.cleanupLoop()
	}

	return s
}

// Put binds an explicit token to userID. Intended for tests and fixtures.
func (s *MemoryStore) Put(token, userID string, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[Key(token)] = memoryEntry{userID: userID, expiresAt: s.now().Add(ttl)}
}

// Resolve implements Resolver.
func (s *MemoryStore) Resolve(_ context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}

	s.mu.RLock()
	entry, ok := s.sessions[Key(token)]
	s.mu.RUnlock()

	if !ok || !s.now().Before(entry.expiresAt) {
		return "", false, nil
	}

	return entry.userID, true, nil
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, userID string, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", ErrInvalidUserID
	}
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	token := newToken()
	s.Put(token, userID, ttl)
	return token, nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, Key(token))
	return nil
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.ticker != nil {
			s.ticker.Stop()
		}
	})
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-s.ticker.C:
			s.deleteExpired()
		case <-s.done:
			return
		}
	}
}

func (s *MemoryStore) deleteExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, entry := range s.sessions {
		if !now.Before(entry.expiresAt) {
			delete(s.sessions, key)
		}
	}
}
