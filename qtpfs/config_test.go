package qtpfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchTypeHCostMult(t *testing.T) {
	assert.Equal(t, 1.0, ASTAR.hCostMult())
	assert.Equal(t, 0.0, DIJKSTRA.hCostMult())
}

func TestDefaultSearchConfig(t *testing.T) {
	cfg := DefaultSearchConfig()
	assert.True(t, cfg.SupportPartialSearches)
	assert.True(t, cfg.SmoothPaths)
	assert.Equal(t, SquareSize*SquareSize, cfg.ShareDistanceSq)
}
