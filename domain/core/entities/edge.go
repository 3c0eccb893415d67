package entities

import (
	"fmt"

	"skilltree/domain/core/valueobjects"
)

// Edge links a parent node to one of its children.
type Edge struct {
	ID     string              `json:"id"`
	Source valueobjects.NodeID `json:"source"`
	Target valueobjects.NodeID `json:"target"`
}

// EdgeID formats the canonical edge id "e<source>-<target>"
func EdgeID(source, target valueobjects.NodeID) string {
	return fmt.Sprintf("e%s-%s", source, target)
}

// NewEdge creates the edge from source to target
func NewEdge(source, target valueobjects.NodeID) Edge {
	return Edge{
		ID:     EdgeID(source, target),
		Source: source,
		Target: target,
	}
}
