package qtpfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeContains(t *testing.T) {
	n := NewNode(0, 0, 0, 4, 4, 1)
	assert.True(t, n.Contains(2, 2))
	assert.True(t, n.Contains(0, 0))
	assert.True(t, n.Contains(4, 4))
	assert.False(t, n.Contains(5, 2))
}

func TestNeighborRelation(t *testing.T) {
	center := NewNode(0, 4, 4, 8, 8, 1)
	left := NewNode(1, 0, 4, 4, 8, 1)
	right := NewNode(2, 8, 4, 12, 8, 1)
	top := NewNode(3, 4, 0, 8, 4, 1)
	bottom := NewNode(4, 4, 8, 8, 12, 1)
	cornerTL := NewNode(5, 0, 0, 4, 4, 1)

	assert.Equal(t, RelLeft, center.NeighborRelation(left))
	assert.Equal(t, RelRight, center.NeighborRelation(right))
	assert.Equal(t, RelTop, center.NeighborRelation(top))
	assert.Equal(t, RelBottom, center.NeighborRelation(bottom))
	assert.Equal(t, RelLeft|RelTop, center.NeighborRelation(cornerTL))
}

func TestEdgeTransitionPointClampsToSharedEdge(t *testing.T) {
	// center (4..8, 4..8) next to a taller neighbour to its right (8..12, 0..8):
	// the hand-off point must lie within the overlap of the two Z ranges.
	center := NewNode(0, 4, 4, 8, 8, 1)
	right := NewNode(1, 8, 0, 12, 8, 1)
	center.SetNeighbours([]*Node{right}, false)

	from := Vec3{X: 4 * SquareSize, Z: 4 * SquareSize} // center's own top-left corner
	pt := center.EdgeTransitionPoint(right, from)

	assert.InDelta(t, 8*SquareSize, pt.X, 1e-9, "hand-off point sits on the shared X boundary")
	assert.GreaterOrEqual(t, pt.Z, 4*SquareSize-1e-9)
	assert.LessOrEqual(t, pt.Z, 8*SquareSize+1e-9)
}

func TestEdgeTransitionPointCachedMatchesUncached(t *testing.T) {
	center := NewNode(0, 4, 4, 8, 8, 1)
	right := NewNode(1, 8, 4, 12, 8, 1)

	uncached := center.edgeTransitionPointUncached(right, center.Midpoint())

	center.SetNeighbours([]*Node{right}, true)
	cached := center.EdgeTransitionPoint(right, center.Midpoint())

	require.Equal(t, uncached, cached)
}

func TestEdgeTransitionPointNilNeighbourReturnsFrom(t *testing.T) {
	n := NewNode(0, 0, 0, 4, 4, 1)
	from := Vec3{X: 1, Y: 2, Z: 3}
	assert.Equal(t, from, n.edgeTransitionPointUncached(nil, from))
}
