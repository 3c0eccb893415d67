package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skilltree/domain/core/valueobjects"
)

func TestNewNode(t *testing.T) {
	pos, err := valueobjects.NewPosition(700, 510)
	require.NoError(t, err)

	t.Run("valid child", func(t *testing.T) {
		node, err := NewNode(valueobjects.NewNodeIDFromInt(2), valueobjects.Root(), pos, "A (Tech Path)", valueobjects.CategoryTech)
		require.NoError(t, err)
		assert.Equal(t, "2", node.ID().String())
		assert.Equal(t, "1", node.ParentID().String())
		assert.False(t, node.IsRoot())
		assert.Equal(t, valueobjects.CategoryTech, node.Category())
	})

	t.Run("root id is reserved", func(t *testing.T) {
		_, err := NewNode(valueobjects.Root(), valueobjects.Root(), pos, "x", valueobjects.CategoryGeneral)
		assert.Error(t, err)
	})

	t.Run("parent required", func(t *testing.T) {
		_, err := NewNode(valueobjects.NewNodeIDFromInt(3), valueobjects.NodeID{}, pos, "x", valueobjects.CategoryGeneral)
		assert.Error(t, err)
	})
}

func TestNode_MarshalJSON(t *testing.T) {
	pos, _ := valueobjects.NewPosition(500, 500)
	root := NewRootNode(pos, "Start")

	data, err := json.Marshal(root)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"1","position":{"x":500,"y":500},"data":{"label":"Start"}}`, string(data))
}

func TestNewEdge(t *testing.T) {
	edge := NewEdge(valueobjects.Root(), valueobjects.NewNodeIDFromInt(2))
	assert.Equal(t, "e1-2", edge.ID)

	data, err := json.Marshal(edge)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"e1-2","source":"1","target":"2"}`, string(data))
}
