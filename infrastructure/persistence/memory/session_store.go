package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"skilltree/domain/core/aggregates"
	pkgerrors "skilltree/pkg/errors"
)

// InMemorySessionStore implements ports.SessionStore with a map and an
// optional background sweep of idle sessions.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[aggregates.SessionID]*aggregates.Session
	ttl      time.Duration
	logger   *zap.Logger

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
}

// NewInMemorySessionStore creates a new in-memory session store. When ttl
// and sweepInterval are both positive a cleanup goroutine runs until Close.
func NewInMemorySessionStore(ttl, sweepInterval time.Duration, logger *zap.Logger) *InMemorySessionStore {
	store := &InMemorySessionStore{
		sessions: make(map[aggregates.SessionID]*aggregates.Session),
		ttl:      ttl,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	if ttl > 0 && sweepInterval > 0 {
		go store.cleanupRoutine(sweepInterval)
	} else {
		close(store.done)
	}

	return store
}

// Save stores a session
func (s *InMemorySessionStore) Save(ctx context.Context, session *aggregates.Session) error {
	if session == nil || session.ID() == "" {
		return fmt.Errorf("invalid session")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID()] = session
	return nil
}

// Get retrieves a session by ID
func (s *InMemorySessionStore) Get(ctx context.Context, id aggregates.SessionID) (*aggregates.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[id]
	if !exists || s.isExpired(session) {
		return nil, pkgerrors.NewNotFoundError(fmt.Sprintf("session %q", id.String()))
	}

	return session, nil
}

// Delete removes a session
func (s *InMemorySessionStore) Delete(ctx context.Context, id aggregates.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Count returns the number of stored sessions
func (s *InMemorySessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// EvictIdle removes sessions whose last activity is older than ttl
func (s *InMemorySessionStore) EvictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	expiredIDs := []aggregates.SessionID{}

	for id, session := range s.sessions {
		if now.Sub(session.LastActive()) > ttl {
			expiredIDs = append(expiredIDs, id)
		}
	}

	for _, id := range expiredIDs {
		delete(s.sessions, id)
	}

	return len(expiredIDs)
}

// Close stops the cleanup goroutine and waits for it to exit
func (s *InMemorySessionStore) Close() error {
	s.stopOnce.Do(func() { close(s.stop) })
	<-s.done
	return nil
}

// isExpired checks if a session has been idle past the ttl
func (s *InMemorySessionStore) isExpired(session *aggregates.Session) bool {
	if s.ttl <= 0 {
		return false
	}
	return time.Since(session.LastActive()) > s.ttl
}

// cleanupRoutine runs periodically to evict idle sessions
func (s *InMemorySessionStore) cleanupRoutine(interval time.Duration) {
	defer close(s.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.EvictIdle(s.ttl); n > 0 {
				s.logger.Info("Evicted idle sessions", zap.Int("count", n))
			}
		case <-s.stop:
			return
		}
	}
}
