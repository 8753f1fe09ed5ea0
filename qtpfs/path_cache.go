package qtpfs

import "fmt"

// PathCache is the live cache of finished paths for one NodeLayer: a
// mapping from id to Path, plus a hash index that SearchExecutor.FindPath
// probes for exact-hash cache hits. The cache owns every path it holds; deletion is
// the only way a path is released (spec §4.6).
type PathCache struct {
	byID   map[int]*Path
	byHash map[uint64]*Path
	nextID int
}

// NewPathCache creates an empty live cache.
func NewPathCache() *PathCache {
	return &PathCache{
		byID:   make(map[int]*Path),
		byHash: make(map[uint64]*Path),
	}
}

// NextID reserves a fresh, nonzero path ID unique within this cache's
// generation.
func (c *PathCache) NextID() int {
	c.nextID++
	return c.nextID
}

// AddLivePath inserts path keyed by its ID, failing if an entry with that
// ID already exists. This is the sole ingestion point paths take before
// other code may read them back.
func (c *PathCache) AddLivePath(path *Path) error {
	if _, exists := c.byID[path.id]; exists {
		return fmt.Errorf("qtpfs: path id %d already live", path.id)
	}
	c.byID[path.id] = path
	c.byHash[path.hash] = path
	return nil
}

// DeletePath releases the path with the given id, the cache's sole release
// mechanism.
func (c *PathCache) DeletePath(id int) {
	path, ok := c.byID[id]
	if !ok {
		return
	}
	delete(c.byID, id)
	if c.byHash[path.hash] == path {
		delete(c.byHash, path.hash)
	}
}

// GetLivePath looks up a path by id.
func (c *PathCache) GetLivePath(id int) (*Path, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// GetPathByHash looks up a path by its GetHash value; SearchExecutor.FindPath
// uses it to return an identical request's live path without searching.
func (c *PathCache) GetPathByHash(hash uint64) (*Path, bool) {
	p, ok := c.byHash[hash]
	return p, ok
}

// Len is the number of live paths, used by the demo host's cache
// introspection endpoint.
func (c *PathCache) Len() int { return len(c.byID) }

// Paths returns every live path, for introspection only; callers must not
// mutate the returned paths.
func (c *PathCache) Paths() []*Path {
	out := make([]*Path, 0, len(c.byID))
	for _, p := range c.byID {
		out = append(out, p)
	}
	return out
}
