package qtpfs

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
)

// ErrNoNode is returned by Initialize when a source or target point
// resolves to no node in the layer (point outside the partitioned area).
var ErrNoNode = errors.New("qtpfs: point resolves to no node in this layer")

// PathSearch drives a single A*/Dijkstra search over one NodeLayer: the
// state machine of spec §4.4 (Initialize -> Execute -> Finalize), plus
// TracePath, SmoothPath, SharedFinalize and GetHash.
type PathSearch struct {
	layer *NodeLayer
	cache *PathCache
	cfg   SearchConfig
	typ   SearchType
	moveDef MoveDefID

	srcNode, tgtNode, curNode, nxtNode, minNode *Node
	srcPoint, tgtPoint, curPoint, nxtPoint       Vec3

	searchRect *orb.Bound
	// searchRectNodes is the set of node numbers whose extent intersects searchRect,
	// bulk-resolved once via NodeLayer.QueryRect's R-tree index rather than
	// re-testing each popped node's midpoint against the rect individually.
	searchRectNodes map[int]struct{}

	searchState uint32
	searchMagic uint32
	hCostMult   float64

	haveFullPath bool
	havePartPath bool

	trace   *SearchTrace
	curIter *SearchIteration
}

// NewPathSearch builds a search bound to a layer/cache/movement class. The
// search itself is cheap; the layer's heap and scratch pool (the resources
// §5 calls "process-wide per-layer") are borrowed, not copied.
func NewPathSearch(layer *NodeLayer, cache *PathCache, moveDef MoveDefID, typ SearchType, cfg SearchConfig) *PathSearch {
	return &PathSearch{
		layer:   layer,
		cache:   cache,
		cfg:     cfg,
		typ:     typ,
		moveDef: moveDef,
	}
}

// Initialize clamps src/tgt into the layer's bounds, resolves the source and
// target nodes, and records the (optional) search rectangle. When a rect is
// given, the set of nodes it covers is resolved once here via the layer's
// R-tree (NodeLayer.QueryRect) instead of re-testing every popped node's
// midpoint against the rect during Iterate.
func (s *PathSearch) Initialize(src, tgt Vec3, rect *orb.Bound) error {
	xmin, zmin, xmax, zmax := s.layer.Bounds()
	src.X = clamp(src.X, xmin, xmax)
	src.Z = clamp(src.Z, zmin, zmax)
	tgt.X = clamp(tgt.X, xmin, xmax)
	tgt.Z = clamp(tgt.Z, zmin, zmax)

	srcNode := s.layer.GetNode(src.X/SquareSize, src.Z/SquareSize)
	tgtNode := s.layer.GetNode(tgt.X/SquareSize, tgt.Z/SquareSize)
	if srcNode == nil || tgtNode == nil {
		return ErrNoNode
	}

	s.srcNode, s.tgtNode = srcNode, tgtNode
	s.minNode = srcNode
	s.srcPoint, s.tgtPoint = src, tgt
	s.curPoint = src
	s.searchRect = rect
	s.searchRectNodes = nil
	if rect != nil {
		covered := s.layer.QueryRect(rect.Min[0]/SquareSize, rect.Min[1]/SquareSize, rect.Max[0]/SquareSize, rect.Max[1]/SquareSize)
		set := make(map[int]struct{}, len(covered))
		for _, n := range covered {
			set[n.NodeNumber()] = struct{}{}
		}
		s.searchRectNodes = set
	}
	return nil
}

// Execute runs the search to completion (single-threaded, synchronous, per
// spec §5) and reports whether a usable path exists: fully, or partially
// when SupportPartialSearches is enabled.
func (s *PathSearch) Execute(stateOffset, magic uint32) bool {
	s.searchState = stateOffset
	s.searchMagic = magic
	if s.cfg.TraceExecution {
		s.trace = &SearchTrace{}
	} else {
		s.trace = nil
	}

	if s.srcNode == s.tgtNode {
		s.haveFullPath = true
		return true
	}

	s.hCostMult = s.typ.hCostMult()

	// Blocked-source escape hatch (spec §4.4 step 4): a node may cover a
	// patch of terrain where only part is actually passable near the
	// unit's stand location, so the search must still be allowed to start.
	origCost := s.srcNode.moveCost
	if origCost == PositiveInfinity {
		s.srcNode.moveCost = 0
		defer func() { s.srcNode.moveCost = origCost }()
	}

	s.layer.heap.reset(s.layer.scratch)

	h := Distance(s.srcPoint, s.tgtPoint)
	s.updateNode(s.srcNode, nil, 0, h, s.srcNode.moveCost)
	s.layer.heap.push(s.srcNode)
	s.curPoint = s.srcPoint

	for !s.layer.heap.empty() {
		s.iterate()

		s.haveFullPath = s.curNode == s.tgtNode
		s.havePartPath = s.minNode != s.srcNode

		if s.haveFullPath {
			// Drain the heap so its index bookkeeping doesn't outlive this
			// search; the layer's heap is reused by the next search.
			for !s.layer.heap.empty() {
				s.layer.heap.pop()
			}
			break
		}
	}

	if !s.haveFullPath && s.havePartPath && s.cfg.SupportPartialSearches {
		mid := s.minNode.Midpoint()
		s.tgtPoint = Vec3{X: mid.X, Y: s.tgtPoint.Y, Z: mid.Z}
		s.tgtNode = s.minNode
	}

	return s.haveFullPath || (s.havePartPath && s.cfg.SupportPartialSearches)
}

// updateNode stamps n's scratch for this search: state, previous-node
// back-link, and the G/H/F/M cost quadruple (spec §4.4 updateNode, and the
// invariant F = G + H*hCostMult always).
func (s *PathSearch) updateNode(n, prev *Node, g, h, m float64) {
	e := s.layer.scratch.get(n)
	e.searchState = s.searchState | stateOpen
	if prev != nil {
		e.prevNode = int32(prev.number)
	} else {
		e.prevNode = -1
	}
	e.g = g
	e.h = h * s.hCostMult
	e.f = g + h*s.hCostMult
	e.m = m
	e.numPrevNodes++
}

// iterate pops the open heap's minimum and expands its neighbours, per
// spec §4.4 Iterate.
func (s *PathSearch) iterate() {
	cur := s.layer.heap.pop()
	s.curNode = cur

	if s.trace != nil {
		iter := SearchIteration{PoppedNode: cur.NodeNumber()}
		defer func() { s.trace.Iterations = append(s.trace.Iterations, iter) }()
		s.curIter = &iter
		defer func() { s.curIter = nil }()
	}

	curEntry := s.layer.scratch.get(cur)
	curEntry.searchState = s.searchState | stateClosed
	if s.cfg.ConservativeNeighborCacheUpdates {
		curEntry.magicNumber = s.searchMagic
	}

	if cur == s.tgtNode {
		return
	}

	if cur != s.srcNode {
		prevPtr := s.prevOf(cur)
		s.curPoint = cur.EdgeTransitionPoint(prevPtr, s.curPoint)
	}

	if cur.moveCost == PositiveInfinity {
		return
	}

	if s.searchRectNodes != nil {
		if _, ok := s.searchRectNodes[cur.NodeNumber()]; !ok {
			return
		}
	}

	if curEntry.h < s.layer.scratch.get(s.minNode).h {
		s.minNode = cur
	}

	hWeight := straightAheadHWeight
	if s.cfg.WeightedHeuristicCost {
		hWeight = math.Sqrt(curEntry.m / float64(curEntry.numPrevNodes+1))
	}

	for _, n := range cur.neighbours {
		if n.moveCost == PositiveInfinity {
			continue
		}
		nxtPoint := cur.EdgeTransitionPoint(n, s.curPoint)

		nEntry := s.layer.scratch.get(n)
		isCurrent := nEntry.isCurrent(s.searchState)
		isClosed := nEntry.isClosed()
		isTarget := n == s.tgtNode

		gDist := Distance(s.curPoint, nxtPoint)
		hDist := Distance(nxtPoint, s.tgtPoint)

		mPrime := curEntry.m + cur.moveCost
		gPrime := curEntry.g + cur.moveCost*gDist
		if isTarget {
			mPrime += n.moveCost
			gPrime += n.moveCost * hDist
		}
		var hPrime float64
		if !isTarget {
			hPrime = hWeight * hDist
		}

		if !isCurrent {
			s.updateNode(n, cur, gPrime, hPrime, mPrime)
			s.layer.heap.push(n)
			if s.curIter != nil {
				s.curIter.PushedNodes = append(s.curIter.PushedNodes, n.NodeNumber())
			}
			continue
		}

		if gPrime >= nEntry.g {
			continue
		}
		if isClosed {
			s.layer.heap.push(n)
		}
		s.updateNode(n, cur, gPrime, hPrime, mPrime)
		s.layer.heap.resort(n)
	}
}

func (s *PathSearch) prevOf(n *Node) *Node {
	e := s.layer.scratch.get(n)
	if e.prevNode < 0 {
		return nil
	}
	return s.layer.nodes[e.prevNode]
}

// Finalize traces the waypoint sequence, optionally smooths it, computes
// the bounding box, and installs the path in the live cache. The search
// never frees the path itself; the cache owns it from here on.
func (s *PathSearch) Finalize(path *Path) error {
	points, edges := s.tracePath()
	if s.cfg.SmoothPaths {
		smoothPoints(points, edges)
	} else {
		s.clearBackLinks()
	}

	path.AllocPoints(len(points))
	for i, p := range points {
		path.SetPoint(i, p)
	}
	path.SetSourcePoint(s.srcPoint)
	path.SetTargetPoint(s.tgtPoint)
	path.SetBoundingBox()
	return s.cache.AddLivePath(path)
}

// edgePair names the two nodes an interior waypoint's shared edge lies on;
// SmoothPath needs it to find the edge's orientation and movable range.
// Zero value (nil, nil) marks the fixed source/target endpoints.
type edgePair struct{ a, b *Node }

// tracePath walks back from tgtNode via prevNode links, reconstructing
// edge-transition points relative to the running previous point, and emits
// points (and their bordering node pairs) in source-to-target order (spec
// §4.4 TracePath). Duplicate consecutive transition points are skipped,
// except the target point itself, which may coincide with the last one.
func (s *PathSearch) tracePath() ([]Vec3, []edgePair) {
	var revPts []Vec3
	var revEdges []edgePair

	prvPoint := s.tgtPoint
	revPts = append(revPts, s.tgtPoint)
	revEdges = append(revEdges, edgePair{})

	n := s.tgtNode
	for n != nil && n != s.srcNode {
		prev := s.prevOf(n)
		if prev == nil {
			break
		}
		pt := n.EdgeTransitionPoint(prev, prvPoint)
		if !samePoint(pt, prvPoint) {
			revPts = append(revPts, pt)
			revEdges = append(revEdges, edgePair{a: n, b: prev})
		}
		prvPoint = pt
		n = prev
	}
	revPts = append(revPts, s.srcPoint)
	revEdges = append(revEdges, edgePair{})

	count := len(revPts)
	points := make([]Vec3, count)
	edges := make([]edgePair, count)
	for i := range revPts {
		points[count-1-i] = revPts[i]
		edges[count-1-i] = revEdges[i]
	}
	return points, edges
}

func (s *PathSearch) clearBackLinks() {
	n := s.tgtNode
	for n != nil {
		e := s.layer.scratch.get(n)
		next := s.prevOf(n)
		e.prevNode = -1
		if n == s.srcNode {
			break
		}
		n = next
	}
}

func samePoint(a, b Vec3) bool {
	return floatsEqual(a.X, b.X) && floatsEqual(a.Z, b.Z)
}

// SharedFinalize attempts the search-sharing fast path: if srcPath and
// dstPath's targets are within ShareDistanceSq of each other, dstPath
// adopts srcPath's interior waypoints (keeping its own source/target),
// recomputes its bounding box, and is installed in the cache.
func SharedFinalize(cache *PathCache, cfg SearchConfig, srcPath, dstPath *Path) bool {
	d := srcPath.GetTargetPoint().sub(dstPath.GetTargetPoint())
	distSq := d.X*d.X + d.Z*d.Z
	if distSq >= cfg.ShareDistanceSq {
		return false
	}
	dstTarget := dstPath.GetTargetPoint()
	dstSource := dstPath.GetSourcePoint()
	dstPath.CopyPoints(srcPath)
	dstPath.SetSourcePoint(dstSource)
	dstPath.SetTargetPoint(dstTarget)
	if dstPath.NumPoints() > 0 {
		dstPath.SetPoint(0, dstSource)
		dstPath.SetPoint(dstPath.NumPoints()-1, dstTarget)
	}
	dstPath.SetBoundingBox()
	return cache.AddLivePath(dstPath) == nil
}

// GetHash computes the cache key for a (src, tgt, movement class) request:
// srcNode.nodeNumber + tgtNode.nodeNumber*N + k*N*N, collision-free so long
// as N bounds every node number in the layer.
func (s *PathSearch) GetHash(k MoveDefID) uint64 {
	return GetHash(s.srcNode.NodeNumber(), s.tgtNode.NodeNumber(), s.layer.NumNodes(), k)
}

// Trace returns the iteration-by-iteration record built during Execute when
// SearchConfig.TraceExecution is set, or nil otherwise.
func (s *PathSearch) Trace() *SearchTrace {
	return s.trace
}

// GetHash is the free-function form, usable before a PathSearch exists
// (e.g. by SearchExecutor for its initial cache probe).
func GetHash(srcNodeNum, tgtNodeNum, n int, k MoveDefID) uint64 {
	N := uint64(n)
	return uint64(srcNodeNum) + uint64(tgtNodeNum)*N + uint64(k)*N*N
}
