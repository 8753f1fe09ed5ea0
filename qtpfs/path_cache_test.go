package qtpfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathCacheAddAndLookup(t *testing.T) {
	c := NewPathCache()
	id := c.NextID()
	p := NewPath(id, 100)
	require.NoError(t, c.AddLivePath(p))

	got, ok := c.GetLivePath(id)
	require.True(t, ok)
	assert.Same(t, p, got)

	byHash, ok := c.GetPathByHash(100)
	require.True(t, ok)
	assert.Same(t, p, byHash)
}

func TestPathCacheAddDuplicateIDFails(t *testing.T) {
	c := NewPathCache()
	p1 := NewPath(1, 10)
	p2 := NewPath(1, 11)
	require.NoError(t, c.AddLivePath(p1))
	assert.Error(t, c.AddLivePath(p2))
}

func TestPathCacheDeleteRemovesBothIndexes(t *testing.T) {
	c := NewPathCache()
	p := NewPath(1, 10)
	require.NoError(t, c.AddLivePath(p))

	c.DeletePath(1)

	_, ok := c.GetLivePath(1)
	assert.False(t, ok)
	_, ok = c.GetPathByHash(10)
	assert.False(t, ok)
}

func TestPathCacheDeleteDoesNotClobberNewerHashOwner(t *testing.T) {
	c := NewPathCache()
	p1 := NewPath(1, 10)
	require.NoError(t, c.AddLivePath(p1))
	c.DeletePath(1)

	p2 := NewPath(2, 10)
	require.NoError(t, c.AddLivePath(p2))

	// Deleting the stale id must not remove p2's now-current hash entry.
	c.DeletePath(1)
	byHash, ok := c.GetPathByHash(10)
	require.True(t, ok)
	assert.Same(t, p2, byHash)
}

func TestPathCacheNextIDNeverRepeats(t *testing.T) {
	c := NewPathCache()
	seen := map[int]bool{}
	for i := 0; i < 50; i++ {
		id := c.NextID()
		assert.False(t, seen[id])
		assert.NotZero(t, id)
		seen[id] = true
	}
}
