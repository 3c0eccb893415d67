package aggregates

import (
	"math/rand/v2"
	"sync"

	"skilltree/domain/core/valueobjects"
)

const (
	// ChildOffsetX is the horizontal distance between a parent and its children
	ChildOffsetX = 200.0
	// JitterSpan is the width of the vertical jitter window centred on the parent
	JitterSpan = 100.0

	firstAllocatedID = 2
)

// JitterFunc returns a vertical offset in [-JitterSpan/2, JitterSpan/2).
type JitterFunc func() float64

// DefaultJitter draws a uniform offset in [-50, 50).
func DefaultJitter() float64 {
	return rand.Float64()*JitterSpan - JitterSpan/2
}

// Allocator hands out node ids and child positions for a single tree.
// Ids start at "2", are strictly increasing and are never reused.
type Allocator struct {
	mu     sync.Mutex
	next   uint64
	jitter JitterFunc
}

// NewAllocator creates an allocator; a nil jitter selects DefaultJitter
func NewAllocator(jitter JitterFunc) *Allocator {
	if jitter == nil {
		jitter = DefaultJitter
	}
	return &Allocator{
		next:   firstAllocatedID,
		jitter: jitter,
	}
}

// AllocateID returns the next unused id
func (a *Allocator) AllocateID() valueobjects.NodeID {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := valueobjects.NewNodeIDFromInt(a.next)
	a.next++
	return id
}

// ComputePosition places a child to the right of its parent with vertical jitter
func (a *Allocator) ComputePosition(parent valueobjects.Position) (valueobjects.Position, error) {
	a.mu.Lock()
	dy := a.jitter()
	a.mu.Unlock()

	return parent.Translate(ChildOffsetX, dy)
}
