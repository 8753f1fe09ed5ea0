package qtpfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildGridLayer builds a w x h layer of unit terrain squares, 4-connected,
// every cell passable unless its (x,z) appears in blocked.
func buildGridLayer(t *testing.T, w, h int, blocked map[[2]int]bool) *NodeLayer {
	t.Helper()
	idx := func(x, z int) int { return z*w + x }
	nodes := make([]*Node, w*h)
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			cost := 1.0
			if blocked[[2]int{x, z}] {
				cost = PositiveInfinity
			}
			nodes[idx(x, z)] = NewNode(idx(x, z), float64(x), float64(z), float64(x+1), float64(z+1), cost)
		}
	}
	for z := 0; z < h; z++ {
		for x := 0; x < w; x++ {
			var ngbs []*Node
			deltas := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
			for _, d := range deltas {
				nx, nz := x+d[0], z+d[1]
				if nx < 0 || nz < 0 || nx >= w || nz >= h {
					continue
				}
				ngbs = append(ngbs, nodes[idx(nx, nz)])
			}
			nodes[idx(x, z)].SetNeighbours(ngbs, false)
		}
	}
	layer, err := NewNodeLayer(0, nodes)
	require.NoError(t, err)
	return layer
}

func TestNodeLayerGetNode(t *testing.T) {
	layer := buildGridLayer(t, 4, 4, nil)

	n := layer.GetNode(1.5, 2.5)
	require.NotNil(t, n)
	assert.Equal(t, 9, n.NodeNumber()) // z=2,x=1 -> idx 2*4+1=9

	outside := layer.GetNode(-5, -5)
	assert.Nil(t, outside)
}

func TestNodeLayerBounds(t *testing.T) {
	layer := buildGridLayer(t, 4, 4, nil)
	xmin, zmin, xmax, zmax := layer.Bounds()
	assert.Equal(t, 0.0, xmin)
	assert.Equal(t, 0.0, zmin)
	assert.Equal(t, 4*SquareSize, xmax)
	assert.Equal(t, 4*SquareSize, zmax)
}

func TestNodeLayerRejectsNonContiguousNumbering(t *testing.T) {
	a := NewNode(0, 0, 0, 1, 1, 1)
	b := NewNode(5, 1, 0, 2, 1, 1)
	_, err := NewNodeLayer(0, []*Node{a, b})
	assert.Error(t, err)
}

func TestNodeLayerQueryRect(t *testing.T) {
	layer := buildGridLayer(t, 4, 4, nil)
	found := layer.QueryRect(0, 0, 2, 2)
	assert.GreaterOrEqual(t, len(found), 4)
}

func TestNodeLayerNextStateOffsetMonotonic(t *testing.T) {
	layer := buildGridLayer(t, 2, 2, nil)
	a := layer.NextStateOffset()
	b := layer.NextStateOffset()
	assert.Greater(t, b, a)
	assert.Equal(t, uint32(2), b-a)
}
