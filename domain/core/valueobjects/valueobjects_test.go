package valueobjects

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeIDFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "root id", input: "1"},
		{name: "allocated id", input: "42"},
		{name: "empty", input: "", wantErr: true},
		{name: "not numeric", input: "abc", wantErr: true},
		{name: "negative", input: "-3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := NewNodeIDFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, id.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, id.String())
		})
	}
}

func TestNodeID_JSON(t *testing.T) {
	id := NewNodeIDFromInt(7)

	data, err := json.Marshal(id)
	require.NoError(t, err)
	assert.Equal(t, `"7"`, string(data))

	var decoded NodeID
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, decoded.Equals(id))

	assert.Error(t, json.Unmarshal([]byte(`7`), &decoded))
	assert.True(t, Root().IsRoot())
	assert.False(t, id.IsRoot())
}

func TestPosition(t *testing.T) {
	t.Run("rejects non-finite coordinates", func(t *testing.T) {
		_, err := NewPosition(math.NaN(), 0)
		assert.Error(t, err)
		_, err = NewPosition(0, math.Inf(-1))
		assert.Error(t, err)
	})

	t.Run("translate", func(t *testing.T) {
		p, err := NewPosition(500, 500)
		require.NoError(t, err)

		moved, err := p.Translate(200, -12.5)
		require.NoError(t, err)
		assert.Equal(t, 700.0, moved.X())
		assert.Equal(t, 487.5, moved.Y())
		assert.True(t, p.Equals(Position{x: 500, y: 500}), "original must be unchanged")
	})

	t.Run("json shape", func(t *testing.T) {
		p, _ := NewPosition(1, 2)
		data, err := json.Marshal(p)
		require.NoError(t, err)
		assert.JSONEq(t, `{"x":1,"y":2}`, string(data))
	})
}

func TestNewProfile(t *testing.T) {
	p := NewProfile("X", "Y", "Z")
	assert.Equal(t, "X, Y, Z", p.PreviousData())

	empty := NewProfile("", "", "")
	assert.Equal(t, ", , ", empty.PreviousData())
}
