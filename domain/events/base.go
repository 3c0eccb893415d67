package events

import (
	"time"

	"skilltree/domain/core/valueobjects"
)

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

const (
	EventTypeTreeSeeded = "tree.seeded"
	EventTypeNodeAdded  = "tree.node_added"
)

// TreeSeeded is raised once when a tree is created with its root
type TreeSeeded struct {
	BaseEvent
	RootID valueobjects.NodeID `json:"root_id"`
	Label  string              `json:"label"`
}

// NewTreeSeeded creates a TreeSeeded event
func NewTreeSeeded(treeID string, rootID valueobjects.NodeID, label string, timestamp time.Time) TreeSeeded {
	return TreeSeeded{
		BaseEvent: BaseEvent{
			AggregateID: treeID,
			EventType:   EventTypeTreeSeeded,
			Timestamp:   timestamp,
			Version:     1,
		},
		RootID: rootID,
		Label:  label,
	}
}

// NodeAdded is raised after a node and its edge were appended
type NodeAdded struct {
	BaseEvent
	NodeID   valueobjects.NodeID   `json:"node_id"`
	ParentID valueobjects.NodeID   `json:"parent_id"`
	EdgeID   string                `json:"edge_id"`
	Label    string                `json:"label"`
	Category valueobjects.Category `json:"category"`
}

// NewNodeAdded creates a NodeAdded event
func NewNodeAdded(
	treeID string,
	version int,
	nodeID, parentID valueobjects.NodeID,
	edgeID, label string,
	category valueobjects.Category,
	timestamp time.Time,
) NodeAdded {
	return NodeAdded{
		BaseEvent: BaseEvent{
			AggregateID: treeID,
			EventType:   EventTypeNodeAdded,
			Timestamp:   timestamp,
			Version:     version,
		},
		NodeID:   nodeID,
		ParentID: parentID,
		EdgeID:   edgeID,
		Label:    label,
		Category: category,
	}
}

// Subscriber receives events synchronously after a mutation commits.
type Subscriber func(event DomainEvent)
