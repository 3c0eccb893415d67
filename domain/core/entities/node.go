package entities

import (
	"encoding/json"
	"time"

	"skilltree/domain/core/valueobjects"
	pkgerrors "skilltree/pkg/errors"
)

// NodeData is the display payload of a node.
type NodeData struct {
	Label string `json:"label"`
}

// Node is one career suggestion on the canvas. The root has no parent.
// Label and position are fixed at creation.
type Node struct {
	id        valueobjects.NodeID
	parentID  valueobjects.NodeID
	position  valueobjects.Position
	label     string
	category  valueobjects.Category
	createdAt time.Time
}

// NewRootNode creates the seeded root of a tree
func NewRootNode(position valueobjects.Position, label string) *Node {
	return &Node{
		id:        valueobjects.Root(),
		position:  position,
		label:     label,
		createdAt: time.Now(),
	}
}

// NewNode creates a child node
func NewNode(
	id valueobjects.NodeID,
	parentID valueobjects.NodeID,
	position valueobjects.Position,
	label string,
	category valueobjects.Category,
) (*Node, error) {
	if id.IsZero() {
		return nil, pkgerrors.NewValidationError("node id cannot be empty")
	}
	if id.IsRoot() {
		return nil, pkgerrors.NewValidationError("node id 1 is reserved for the root")
	}
	if parentID.IsZero() {
		return nil, pkgerrors.NewValidationError("parent id cannot be empty")
	}

	return &Node{
		id:        id,
		parentID:  parentID,
		position:  position,
		label:     label,
		category:  category,
		createdAt: time.Now(),
	}, nil
}

// ID returns the node's identifier
func (n *Node) ID() valueobjects.NodeID {
	return n.id
}

// ParentID returns the parent's identifier; zero for the root
func (n *Node) ParentID() valueobjects.NodeID {
	return n.parentID
}

// IsRoot reports whether this is the tree root
func (n *Node) IsRoot() bool {
	return n.id.IsRoot()
}

// Position returns the node's canvas position
func (n *Node) Position() valueobjects.Position {
	return n.position
}

// Label returns the display label, e.g. "Try X. (Tech Path)"
func (n *Node) Label() string {
	return n.label
}

// Category returns the category the node was created under; empty for the root
func (n *Node) Category() valueobjects.Category {
	return n.category
}

// CreatedAt returns the creation timestamp
func (n *Node) CreatedAt() time.Time {
	return n.createdAt
}

// MarshalJSON renders the node in the canvas shape {id, position, data:{label}}
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID       valueobjects.NodeID   `json:"id"`
		Position valueobjects.Position `json:"position"`
		Data     NodeData              `json:"data"`
	}{
		ID:       n.id,
		Position: n.position,
		Data:     NodeData{Label: n.label},
	})
}
