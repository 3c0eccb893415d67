package aggregates

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"skilltree/domain/core/valueobjects"
	pkgerrors "skilltree/pkg/errors"
)

// SessionID identifies one explorer session
type SessionID string

// NewSessionID creates a new random SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.New().String())
}

// String returns the string representation
func (id SessionID) String() string {
	return string(id)
}

// Session owns the profile, tree and selection of one user.
type Session struct {
	id        SessionID
	profile   valueobjects.Profile
	tree      *Tree
	createdAt time.Time

	mu         sync.RWMutex
	selection  valueobjects.NodeID
	lastActive time.Time

	// single slot; holding it means an add is in flight
	addSlot chan struct{}
}

// NewSession creates a session whose tree is seeded and whose selection is the root
func NewSession(profile valueobjects.Profile, opts ...TreeOption) *Session {
	id := NewSessionID()
	now := time.Now()
	return &Session{
		id:         id,
		profile:    profile,
		tree:       NewTree(id.String(), opts...),
		createdAt:  now,
		selection:  valueobjects.Root(),
		lastActive: now,
		addSlot:    make(chan struct{}, 1),
	}
}

// ID returns the session identifier
func (s *Session) ID() SessionID {
	return s.id
}

// Profile returns the immutable intake profile
func (s *Session) Profile() valueobjects.Profile {
	return s.profile
}

// Tree returns the session's tree
func (s *Session) Tree() *Tree {
	return s.tree
}

// CreatedAt returns when the session started
func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

// Selection returns the currently selected node id
func (s *Session) Selection() valueobjects.NodeID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection
}

// Select moves the selection; ids that do not resolve are rejected
func (s *Session) Select(id valueobjects.NodeID) error {
	if !s.tree.HasNode(id) {
		return pkgerrors.NewNotFoundError(fmt.Sprintf("node %q", id.String()))
	}
	s.mu.Lock()
	s.selection = id
	s.lastActive = time.Now()
	s.mu.Unlock()
	return nil
}

// Touch records activity for idle eviction
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// LastActive returns the time of the last recorded activity
func (s *Session) LastActive() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastActive
}

// AcquireAdd waits until no other add is in flight for this session.
// The returned release func must be called exactly once.
func (s *Session) AcquireAdd(ctx context.Context) (func(), error) {
	select {
	case s.addSlot <- struct{}{}:
		return func() { <-s.addSlot }, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
