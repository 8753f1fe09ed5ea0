package qtpfs

import (
	"errors"
	"log/slog"

	"github.com/paulmach/orb"
)

// ErrNoPath is returned when a search exhausts the open heap without
// reaching the target and partial-path fallback is disabled (or also
// fails), per spec §7 "No path".
var ErrNoPath = errors.New("qtpfs: no path found")

// SearchExecutor orchestrates a single request end to end: cache lookup,
// search, finalize, per spec §1's data-flow description. It hands back the
// finished Path; the PathCache that owns it is not exposed to the caller
// beyond that read.
type SearchExecutor struct {
	layer *NodeLayer
	cache *PathCache
	typ   SearchType
	cfg   SearchConfig
}

// NewSearchExecutor binds an executor to one movement class's layer, its
// live cache, and a search policy.
func NewSearchExecutor(layer *NodeLayer, cache *PathCache, typ SearchType, cfg SearchConfig) *SearchExecutor {
	return &SearchExecutor{layer: layer, cache: cache, typ: typ, cfg: cfg}
}

// FindPath resolves (moveDef, src, tgt, rect) to a Path: an exact cache hit
// short-circuits the search entirely; otherwise a fresh PathSearch runs and
// its result is installed in the live cache before being returned.
func (se *SearchExecutor) FindPath(moveDef MoveDefID, src, tgt Vec3, rect *orb.Bound) (*Path, error) {
	// Clamp the way Initialize does, so the cache probe hashes the same
	// nodes the search would resolve.
	xmin, zmin, xmax, zmax := se.layer.Bounds()
	src.X, src.Z = clamp(src.X, xmin, xmax), clamp(src.Z, zmin, zmax)
	tgt.X, tgt.Z = clamp(tgt.X, xmin, xmax), clamp(tgt.Z, zmin, zmax)

	srcNode := se.layer.GetNode(src.X/SquareSize, src.Z/SquareSize)
	tgtNode := se.layer.GetNode(tgt.X/SquareSize, tgt.Z/SquareSize)
	if srcNode == nil || tgtNode == nil {
		slog.Warn("qtpfs: point resolves to no node", "moveDef", moveDef, "src", src, "tgt", tgt)
		return nil, ErrNoNode
	}

	hash := GetHash(srcNode.NodeNumber(), tgtNode.NodeNumber(), se.layer.NumNodes(), moveDef)
	if cached, ok := se.cache.GetPathByHash(hash); ok {
		slog.Info("qtpfs: cache hit", "moveDef", moveDef, "hash", hash, "pathID", cached.ID())
		return cached, nil
	}

	search := NewPathSearch(se.layer, se.cache, moveDef, se.typ, se.cfg)
	if err := search.Initialize(src, tgt, rect); err != nil {
		slog.Error("qtpfs: initialize failed", "moveDef", moveDef, "err", err)
		return nil, err
	}

	stateOffset := se.layer.NextStateOffset()
	magic := se.layer.CurrentMagic()
	slog.Info("qtpfs: search starting", "moveDef", moveDef, "hash", hash, "src", src, "tgt", tgt)
	if !search.Execute(stateOffset, magic) {
		slog.Warn("qtpfs: search exhausted open heap", "moveDef", moveDef, "hash", hash)
		return nil, ErrNoPath
	}

	path := NewPath(se.cache.NextID(), hash)
	if err := search.Finalize(path); err != nil {
		slog.Error("qtpfs: finalize failed", "moveDef", moveDef, "hash", hash, "err", err)
		return nil, err
	}
	slog.Info("qtpfs: search complete", "moveDef", moveDef, "hash", hash, "pathID", path.ID(), "points", path.NumPoints())
	return path, nil
}

// ReleasePath hands a path back to the cache, the sole release mechanism
// per spec §4.6.
func (se *SearchExecutor) ReleasePath(id int) {
	se.cache.DeletePath(id)
}
