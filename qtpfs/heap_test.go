package qtpfs

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gridOfNodes(n int) ([]*Node, *scratchPool) {
	nodes := make([]*Node, n)
	for i := 0; i < n; i++ {
		nodes[i] = NewNode(i, float64(i), 0, float64(i+1), 1, 1)
	}
	return nodes, newScratchPool(n)
}

func TestHeapPushPopOrdersByF(t *testing.T) {
	nodes, scratch := gridOfNodes(5)
	h := newBinaryHeap(len(nodes))
	h.reset(scratch)

	fs := []float64{5, 1, 4, 2, 3}
	for i, n := range nodes {
		scratch.get(n).f = fs[i]
		h.push(n)
	}
	require.True(t, h.checkHeapProperty(0))

	var popped []float64
	for !h.empty() {
		n := h.pop()
		popped = append(popped, scratch.get(n).f)
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, popped)
}

func TestHeapResortAfterDecrease(t *testing.T) {
	nodes, scratch := gridOfNodes(6)
	h := newBinaryHeap(len(nodes))
	h.reset(scratch)

	for i, n := range nodes {
		scratch.get(n).f = float64(10 - i)
		h.push(n)
	}
	require.True(t, h.checkHeapProperty(0))

	// Drop the last node's F below everything else and resort it in place.
	last := nodes[len(nodes)-1]
	scratch.get(last).f = -1
	h.resort(last)

	assert.True(t, h.checkHeapProperty(0))
	assert.Same(t, last, h.top())
}

func TestHeapRandomizedMaintainsProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nodes, scratch := gridOfNodes(100)
	h := newBinaryHeap(len(nodes))
	h.reset(scratch)

	for _, n := range nodes {
		scratch.get(n).f = rng.Float64() * 1000
		h.push(n)
		require.True(t, h.checkHeapProperty(0))
	}

	prev := -1.0
	for !h.empty() {
		n := h.pop()
		f := scratch.get(n).f
		assert.GreaterOrEqual(t, f, prev)
		prev = f
		assert.True(t, h.checkHeapProperty(0))
	}
}

func TestHeapPopSetsHeapIndexToNegativeOne(t *testing.T) {
	nodes, scratch := gridOfNodes(3)
	h := newBinaryHeap(len(nodes))
	h.reset(scratch)
	for _, n := range nodes {
		h.push(n)
	}
	popped := h.pop()
	assert.Equal(t, -1, scratch.get(popped).heapIndex)
}
