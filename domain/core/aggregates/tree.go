package aggregates

import (
	"fmt"
	"sync"
	"time"

	"skilltree/domain/core/entities"
	"skilltree/domain/core/valueobjects"
	"skilltree/domain/events"
	pkgerrors "skilltree/pkg/errors"
)

const (
	RootLabel = "Start"
	RootX     = 500.0
	RootY     = 500.0
)

// Tree is the aggregate root for one career-path canvas.
// Nodes and edges always form a rooted tree: every non-root node has exactly
// one incoming edge from a node that existed when it was added.
type Tree struct {
	mu sync.RWMutex

	id        string
	allocator *Allocator
	nodes     map[string]*entities.Node
	order     []*entities.Node
	edges     []entities.Edge
	version   int

	events      []events.DomainEvent
	subscribers []events.Subscriber
}

// TreeOption configures a Tree at construction
type TreeOption func(*treeOptions)

type treeOptions struct {
	jitter JitterFunc
}

// WithJitter overrides the vertical jitter source
func WithJitter(fn JitterFunc) TreeOption {
	return func(o *treeOptions) {
		o.jitter = fn
	}
}

// NewTree creates a tree seeded with the root node "Start" at (500, 500)
func NewTree(id string, opts ...TreeOption) *Tree {
	options := &treeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	rootPos, _ := valueobjects.NewPosition(RootX, RootY)
	root := entities.NewRootNode(rootPos, RootLabel)

	t := &Tree{
		id:        id,
		allocator: NewAllocator(options.jitter),
		nodes:     map[string]*entities.Node{root.ID().String(): root},
		order:     []*entities.Node{root},
		edges:     []entities.Edge{},
		version:   1,
	}
	t.events = append(t.events, events.NewTreeSeeded(id, root.ID(), RootLabel, root.CreatedAt()))

	return t
}

// ID returns the tree identifier
func (t *Tree) ID() string {
	return t.id
}

// Subscribe registers an observer notified after every committed mutation
func (t *Tree) Subscribe(sub events.Subscriber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.subscribers = append(t.subscribers, sub)
}

// AddNode appends one child of parentID labelled "<label> (<category>)" and
// the edge linking them. A missing parent is rejected without any change.
func (t *Tree) AddNode(parentID valueobjects.NodeID, label string, category valueobjects.Category) (*entities.Node, entities.Edge, error) {
	t.mu.Lock()

	parent, ok := t.nodes[parentID.String()]
	if !ok {
		t.mu.Unlock()
		return nil, entities.Edge{}, pkgerrors.NewNotFoundError(fmt.Sprintf("parent node %q", parentID.String()))
	}

	pos, err := t.allocator.ComputePosition(parent.Position())
	if err != nil {
		t.mu.Unlock()
		return nil, entities.Edge{}, err
	}

	node, err := entities.NewNode(
		t.allocator.AllocateID(),
		parent.ID(),
		pos,
		fmt.Sprintf("%s (%s)", label, category),
		category,
	)
	if err != nil {
		t.mu.Unlock()
		return nil, entities.Edge{}, err
	}
	edge := entities.NewEdge(parent.ID(), node.ID())

	t.nodes[node.ID().String()] = node
	t.order = append(t.order, node)
	t.edges = append(t.edges, edge)
	t.version++

	event := events.NewNodeAdded(t.id, t.version, node.ID(), parent.ID(), edge.ID, node.Label(), category, time.Now())
	t.events = append(t.events, event)
	subscribers := append([]events.Subscriber(nil), t.subscribers...)
	t.mu.Unlock()

	for _, sub := range subscribers {
		sub(event)
	}

	return node, edge, nil
}

// GetNode looks up a node by id
func (t *Tree) GetNode(id valueobjects.NodeID) (*entities.Node, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	node, ok := t.nodes[id.String()]
	return node, ok
}

// HasNode reports whether id resolves to an existing node
func (t *Tree) HasNode(id valueobjects.NodeID) bool {
	_, ok := t.GetNode(id)
	return ok
}

// Nodes returns all nodes in insertion order
func (t *Tree) Nodes() []*entities.Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	nodes := make([]*entities.Node, len(t.order))
	copy(nodes, t.order)
	return nodes
}

// Edges returns all edges in insertion order
func (t *Tree) Edges() []entities.Edge {
	t.mu.RLock()
	defer t.mu.RUnlock()
	edges := make([]entities.Edge, len(t.edges))
	copy(edges, t.edges)
	return edges
}

// Snapshot returns nodes and edges read under a single lock
func (t *Tree) Snapshot() ([]*entities.Node, []entities.Edge) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	nodes := make([]*entities.Node, len(t.order))
	copy(nodes, t.order)
	edges := make([]entities.Edge, len(t.edges))
	copy(edges, t.edges)
	return nodes, edges
}

// Labels returns every node label in insertion order
func (t *Tree) Labels() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	labels := make([]string, len(t.order))
	for i, n := range t.order {
		labels[i] = n.Label()
	}
	return labels
}

// NodeCount returns the number of nodes including the root
func (t *Tree) NodeCount() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.order)
}

// Version increments on every added node
func (t *Tree) Version() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.version
}

// GetUncommittedEvents returns events not yet marked as committed
func (t *Tree) GetUncommittedEvents() []events.DomainEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]events.DomainEvent, len(t.events))
	copy(out, t.events)
	return out
}

// MarkEventsAsCommitted clears the uncommitted event list
func (t *Tree) MarkEventsAsCommitted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}
