package valueobjects

import (
	"errors"
	"strconv"
)

// RootNodeID is reserved for the seeded "Start" node of every tree.
const RootNodeID = "1"

// NodeID is a value object holding a decimal integer node identifier.
type NodeID struct {
	value string
}

// Root returns the identifier of the tree root.
func Root() NodeID {
	return NodeID{value: RootNodeID}
}

// NewNodeIDFromInt creates a NodeID from its numeric sequence value
func NewNodeIDFromInt(n uint64) NodeID {
	return NodeID{value: strconv.FormatUint(n, 10)}
}

// NewNodeIDFromString creates a NodeID from an existing string
func NewNodeIDFromString(id string) (NodeID, error) {
	if id == "" {
		return NodeID{}, errors.New("node ID cannot be empty")
	}
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return NodeID{}, errors.New("node ID must be a decimal integer")
	}
	return NodeID{value: id}, nil
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	return id.value
}

// Equals checks if two NodeIDs are equal
func (id NodeID) Equals(other NodeID) bool {
	return id.value == other.value
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id.value == ""
}

// IsRoot reports whether the id is the reserved root id.
func (id NodeID) IsRoot() bool {
	return id.value == RootNodeID
}

// MarshalJSON implements json.Marshaler
func (id NodeID) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(id.value)), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (id *NodeID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return errors.New("NodeID must be a string")
	}
	parsed, err := NewNodeIDFromString(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
