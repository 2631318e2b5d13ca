package graphinput

import (
	"errors"
	"testing"

	"github.com/GoSim-25-26J-441/go-optimization-backend/internal/optimization/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_AddEdge(t *testing.T) {
	t.Run("rejects self loops", func(t *testing.T) {
		b := NewBuilder()
		_, err := b.AddEdge("A", "A", "1", "1")
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrSelfLoop))

		var verr *domain.ValidationError
		assert.True(t, errors.As(err, &verr))
		assert.Equal(t, 0, b.Len())
	})

	t.Run("self loop detection is case and whitespace insensitive", func(t *testing.T) {
		b := NewBuilder()
		_, err := b.AddEdge(" a", "A ", "1", "1")
		assert.ErrorIs(t, err, domain.ErrSelfLoop)
	})

	t.Run("rejects duplicate directed edges", func(t *testing.T) {
		b := NewBuilder()
		_, err := b.AddEdge("A", "B", "1", "1")
		require.NoError(t, err)

		_, err = b.AddEdge("A", "B", "1", "1")
		assert.ErrorIs(t, err, domain.ErrDuplicateEdge)
		assert.Equal(t, 1, b.Len())
	})

	t.Run("reverse direction is a different edge", func(t *testing.T) {
		b := NewBuilder()
		_, err := b.AddEdge("A", "B", "1", "1")
		require.NoError(t, err)
		_, err = b.AddEdge("B", "A", "1", "1")
		require.NoError(t, err)
		assert.Equal(t, 2, b.Len())
	})

	t.Run("normalizes node identifiers", func(t *testing.T) {
		b := NewBuilder()
		edge, err := b.AddEdge("a", " B ", "1", "1")
		require.NoError(t, err)
		assert.Equal(t, domain.NodeID("A"), edge.From)
		assert.Equal(t, domain.NodeID("B"), edge.To)
		assert.Equal(t, 2, b.NodeCount())
	})

	t.Run("rejects empty endpoints", func(t *testing.T) {
		b := NewBuilder()
		_, err := b.AddEdge("  ", "B", "1", "1")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "from", verr.Fields[0].Field)
	})

	t.Run("strict mode requires weight and capacity", func(t *testing.T) {
		b := NewBuilder()
		_, err := b.AddEdge("A", "B", "", "")
		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Len(t, verr.Fields, 2)
	})

	t.Run("permissive mode defaults empty numbers to zero", func(t *testing.T) {
		b := NewBuilder(WithPermissiveNumbers())
		edge, err := b.AddEdge("A", "B", "", "")
		require.NoError(t, err)
		assert.Equal(t, 0.0, edge.Weight)
		assert.Equal(t, 0.0, edge.Capacity)
	})

	t.Run("permissive mode still rejects garbage", func(t *testing.T) {
		b := NewBuilder(WithPermissiveNumbers())
		_, err := b.AddEdge("A", "B", "abc", "1")
		assert.Error(t, err)
	})

	t.Run("rejects non-finite numbers", func(t *testing.T) {
		tests := []struct {
			name     string
			weight   string
			capacity string
			field    string
		}{
			{"NaN weight", "NaN", "1", "weight"},
			{"infinite weight", "Inf", "1", "weight"},
			{"negative infinite capacity", "1", "-Inf", "capacity"},
			{"spelled out infinity", "1", "infinity", "capacity"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				b := NewBuilder(WithPermissiveNumbers())
				_, err := b.AddEdge("A", "B", tt.weight, tt.capacity)
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				require.Len(t, verr.Fields, 1)
				assert.Equal(t, tt.field, verr.Fields[0].Field)
				assert.Equal(t, 0, b.Len())
			})
		}
	})

	t.Run("parses numeric fields", func(t *testing.T) {
		b := NewBuilder()
		edge, err := b.AddEdge("A", "B", "2.5", "10")
		require.NoError(t, err)
		assert.Equal(t, 2.5, edge.Weight)
		assert.Equal(t, 10.0, edge.Capacity)
	})
}

func TestBuilder_Invalidation(t *testing.T) {
	calls := 0
	b := NewBuilder(WithInvalidation(func() { calls++ }))

	_, err := b.AddEdge("A", "B", "1", "1")
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = b.AddEdge("A", "B", "1", "1")
	require.Error(t, err)
	assert.Equal(t, 1, calls, "rejected additions must not invalidate")

	_, err = b.RemoveEdge(0)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)

	_, err = b.RemoveEdge(0)
	assert.ErrorIs(t, err, domain.ErrEdgeIndexOutOfRange)
	assert.Equal(t, 2, calls)
}

func TestBuilder_RemoveEdge(t *testing.T) {
	b := NewBuilder()
	for _, pair := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}} {
		_, err := b.AddEdge(pair[0], pair[1], "1", "1")
		require.NoError(t, err)
	}

	removed, err := b.RemoveEdge(1)
	require.NoError(t, err)
	assert.Equal(t, domain.NodeID("B"), removed.From)

	edges := b.Edges()
	require.Len(t, edges, 2)
	assert.Equal(t, domain.NodeID("A"), edges[0].From)
	assert.Equal(t, domain.NodeID("C"), edges[1].From)

	// the removed pair can be added again
	_, err = b.AddEdge("b", "c", "1", "1")
	assert.NoError(t, err)
}

func TestBuilder_Validate(t *testing.T) {
	b := NewBuilder()
	assert.Error(t, b.Validate())

	_, err := b.AddEdge("A", "B", "1", "5")
	require.NoError(t, err)
	require.NoError(t, b.Validate())

	req, err := b.Request()
	require.NoError(t, err)
	require.Len(t, req.Graph, 1)
	assert.Equal(t, "A", req.Graph[0][0])
	assert.Equal(t, "B", req.Graph[0][1])
	assert.Equal(t, 1.0, req.Graph[0][2])
	assert.Equal(t, 5.0, req.Graph[0][3])
}

func TestFromEdges(t *testing.T) {
	b, err := FromEdges([]domain.GraphEdge{
		{From: "A", To: "B", Weight: 1, Capacity: 2},
		{From: "B", To: "C", Weight: 3, Capacity: 4},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, b.NodeCount())
	assert.Equal(t, []domain.NodeID{"A", "B", "C"}, b.Nodes())

	_, err = FromEdges([]domain.GraphEdge{
		{From: "A", To: "B"},
		{From: "a", To: "b"},
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEdge)
}
