package qtpfs

// Relation is a bitmask of shared edges between two neighbouring nodes.
// Corner-diagonal neighbours report two bits: one horizontal, one vertical.
type Relation uint8

const (
	RelLeft Relation = 1 << iota
	RelRight
	RelTop
	RelBottom
)

const edgeEpsilon = 1e-6

// Node is an opaque quadtree cell: a spatial extent, a single average
// movement cost, and a stable list of neighbours. Every mutable per-search
// field a node needs (search state, costs, back-links) lives in the scratch
// pool owned by PathSearch, per the re-architecture in SPEC_FULL.md/DESIGN.md
// rather than on the node itself. The one write a search makes to a node is
// Execute's blocked-source escape hatch, which sets the source node's move
// cost to zero for the duration of the search and restores it on return.
type Node struct {
	number int

	xmin, zmin, xmax, zmax float64
	xmid, zmid              float64

	moveCost float64

	neighbours []*Node

	// edgeTransitionPoints[i] is the precomputed hand-off point to
	// neighbours[i], populated when SetNeighbours is called with
	// cacheEdgePoints set. nil when the layer was built without caching.
	edgeTransitionPoints []Vec3
}

// NewNode constructs a node over a terrain-square extent with the given
// move cost. Neighbours and any cached edge points are wired in afterward
// via SetNeighbours, once every node in the layer exists.
func NewNode(number int, xmin, zmin, xmax, zmax, moveCost float64) *Node {
	return &Node{
		number:   number,
		xmin:     xmin,
		zmin:     zmin,
		xmax:     xmax,
		zmax:     zmax,
		xmid:     (xmin + xmax) * 0.5,
		zmid:     (zmin + zmax) * 0.5,
		moveCost: moveCost,
	}
}

// SetNeighbours wires this node's neighbour list. If cacheEdgePoints is set,
// the shared-edge hand-off point to each neighbour is precomputed now (seeded
// from this node's own midpoint) for the CACHED_EDGE_TRANSITION_POINTS policy.
func (n *Node) SetNeighbours(neighbours []*Node, cacheEdgePoints bool) {
	n.neighbours = neighbours
	n.edgeTransitionPoints = nil
	if !cacheEdgePoints {
		return
	}
	pts := make([]Vec3, len(neighbours))
	seed := n.Midpoint()
	for i, ngb := range neighbours {
		pts[i] = n.edgeTransitionPointUncached(ngb, seed)
	}
	n.edgeTransitionPoints = pts
}

// NodeNumber is this node's stable identity within its layer.
func (n *Node) NodeNumber() int { return n.number }

// MoveCost is the node's average traversal cost; PositiveInfinity means blocked.
func (n *Node) MoveCost() float64 { return n.moveCost }

func (n *Node) XMin() float64 { return n.xmin }
func (n *Node) ZMin() float64 { return n.zmin }
func (n *Node) XMax() float64 { return n.xmax }
func (n *Node) ZMax() float64 { return n.zmax }
func (n *Node) XMid() float64 { return n.xmid }
func (n *Node) ZMid() float64 { return n.zmid }

// Midpoint is the node's centre in world units.
func (n *Node) Midpoint() Vec3 {
	return Vec3{X: n.xmid * SquareSize, Z: n.zmid * SquareSize}
}

// Contains reports whether a terrain-square coordinate (sx, sz) falls within
// this node's extent, edges included.
func (n *Node) Contains(sx, sz float64) bool {
	return sx >= n.xmin && sx <= n.xmax && sz >= n.zmin && sz <= n.zmax
}

// Neighbours returns this node's neighbour list, stable for the duration of
// a search.
func (n *Node) Neighbours() []*Node { return n.neighbours }

// NeighborRelation reports which edge(s) n and other share. Zero means the
// two nodes are not adjacent (should not occur for entries in n.neighbours).
func (n *Node) NeighborRelation(other *Node) Relation {
	var rel Relation
	switch {
	case floatsEqual(other.xmax, n.xmin):
		rel |= RelLeft
	case floatsEqual(other.xmin, n.xmax):
		rel |= RelRight
	}
	switch {
	case floatsEqual(other.zmax, n.zmin):
		rel |= RelTop
	case floatsEqual(other.zmin, n.zmax):
		rel |= RelBottom
	}
	return rel
}

func floatsEqual(a, b float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= edgeEpsilon
}

// EdgeTransitionPoint returns the world-coordinate hand-off point between n
// and the named neighbour, seeded from "from". When ngb was cached via
// SetNeighbours(cacheEdgePoints=true), the cached value is returned
// (indexed by neighbour position) instead of recomputing it, per the
// CACHED_EDGE_TRANSITION_POINTS policy.
func (n *Node) EdgeTransitionPoint(ngb *Node, from Vec3) Vec3 {
	if n.edgeTransitionPoints != nil {
		for i, cand := range n.neighbours {
			if cand == ngb {
				return n.edgeTransitionPoints[i]
			}
		}
	}
	return n.edgeTransitionPointUncached(ngb, from)
}

func (n *Node) edgeTransitionPointUncached(ngb *Node, from Vec3) Vec3 {
	if ngb == nil {
		return from
	}
	rel := n.NeighborRelation(ngb)

	x, z := from.X/SquareSize, from.Z/SquareSize
	switch {
	case rel&RelLeft != 0:
		x = n.xmin
	case rel&RelRight != 0:
		x = n.xmax
	}
	switch {
	case rel&RelTop != 0:
		z = n.zmin
	case rel&RelBottom != 0:
		z = n.zmax
	}

	// The axis that wasn't pinned to a boundary above is free to move along
	// the shared edge; clamp it to the overlap of the two extents so the
	// point always lies on the actual shared edge, including at corners.
	if rel&(RelLeft|RelRight) == 0 {
		lo, hi := overlapRange(n.xmin, n.xmax, ngb.xmin, ngb.xmax)
		x = clamp(x, lo, hi)
	}
	if rel&(RelTop|RelBottom) == 0 {
		lo, hi := overlapRange(n.zmin, n.zmax, ngb.zmin, ngb.zmax)
		z = clamp(z, lo, hi)
	}

	return Vec3{X: x * SquareSize, Y: from.Y, Z: z * SquareSize}
}

func overlapRange(aMin, aMax, bMin, bMax float64) (float64, float64) {
	lo := aMin
	if bMin > lo {
		lo = bMin
	}
	hi := aMax
	if bMax < hi {
		hi = bMax
	}
	if lo > hi {
		// Disjoint along this axis (shouldn't happen for true neighbours);
		// fall back to this node's own range rather than producing NaN.
		return aMin, aMax
	}
	return lo, hi
}
