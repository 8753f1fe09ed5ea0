package qtpfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScratchPoolResetIndices(t *testing.T) {
	p := newScratchPool(3)
	for i := range p.entries {
		assert.Equal(t, int32(-1), p.entries[i].prevNode)
		assert.Equal(t, -1, p.entries[i].heapIndex)
	}
}

func TestScratchEntryIsCurrentIsolatesEpochs(t *testing.T) {
	e := &scratchEntry{searchState: 10}
	assert.True(t, e.isCurrent(10))
	assert.True(t, e.isCurrent(8))
	assert.False(t, e.isCurrent(12), "an entry from an earlier search must not look current to a later one")
}

func TestScratchEntryOpenClosed(t *testing.T) {
	e := &scratchEntry{searchState: 4 | stateOpen}
	assert.True(t, e.isOpen(4))
	assert.False(t, e.isClosed())

	e.searchState = 4 | stateClosed
	assert.False(t, e.isOpen(4))
	assert.True(t, e.isClosed())
}

func TestScratchEntryStaleOnOldMagic(t *testing.T) {
	e := &scratchEntry{searchState: 10, magicNumber: 1}
	assert.False(t, e.stale(10, 1))
	assert.True(t, e.stale(10, 2), "a magic bump must stale out entries from before a terrain change")
	assert.True(t, e.stale(12, 1))
}

func TestScratchEntryCostSelector(t *testing.T) {
	e := &scratchEntry{g: 1, h: 2, f: 3, m: 4}
	assert.Equal(t, 1.0, e.cost(costG))
	assert.Equal(t, 2.0, e.cost(costH))
	assert.Equal(t, 3.0, e.cost(costF))
	assert.Equal(t, 4.0, e.cost(costM))
}
