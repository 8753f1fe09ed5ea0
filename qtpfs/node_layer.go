package qtpfs

import (
	"fmt"

	"github.com/dhconnelly/rtreego"
)

// MoveDefID identifies a movement class (infantry, wheeled, hover, ...).
// Each movement class gets its own NodeLayer, since terrain that is
// passable for one class may be blocked for another.
type MoveDefID int

// nodeEntry adapts *Node to rtreego.Spatial so the layer's R-tree can index
// it by its terrain-square extent.
type nodeEntry struct {
	node *Node
	rect rtreego.Rect
}

func (e *nodeEntry) Bounds() rtreego.Rect { return e.rect }

func nodeRect(n *Node) (rtreego.Rect, error) {
	w := n.xmax - n.xmin
	h := n.zmax - n.zmin
	if w <= 0 {
		w = 1e-6
	}
	if h <= 0 {
		h = 1e-6
	}
	return rtreego.NewRect(rtreego.Point{n.xmin, n.zmin}, []float64{w, h})
}

// NodeLayer is the set of nodes covering one movement class's passable
// terrain. Point-to-node lookup is backed by an R-tree over each node's
// extent, the way the teacher's spatial_index.go indexes no-fly-zone
// polygons: built once, queried many times across searches.
type NodeLayer struct {
	moveDef MoveDefID
	nodes   []*Node // ordered by node number
	index   *rtreego.Rtree

	// heap and scratch are the layer-scoped shared search resources
	// (§5: "the open heap is a process-wide (per-layer) scratch
	// resource shared between sequential search instances").
	heap    *BinaryHeap
	scratch *scratchPool

	nextStateOffset uint32
	magicNumber     uint32

	xmin, zmin, xmax, zmax float64 // overall extent, in terrain-square units
}

// NewNodeLayer builds a layer's spatial index over the given nodes. Nodes
// must already carry their neighbour wiring (via Node.SetNeighbours); the
// layer does not construct the quadtree partition itself (spec Non-goals).
func NewNodeLayer(moveDef MoveDefID, nodes []*Node) (*NodeLayer, error) {
	tree := rtreego.NewTree(2, 4, 16)
	l := &NodeLayer{
		moveDef: moveDef,
		nodes:   nodes,
		index:   tree,
		heap:    newBinaryHeap(len(nodes)),
		scratch: newScratchPool(len(nodes)),
	}
	for i, n := range nodes {
		if n.number != i {
			return nil, fmt.Errorf("qtpfs: node at slice position %d has node number %d; layer nodes must be supplied in contiguous number order", i, n.number)
		}
		rect, err := nodeRect(n)
		if err != nil {
			return nil, fmt.Errorf("qtpfs: node %d has a degenerate extent: %w", n.number, err)
		}
		tree.Insert(&nodeEntry{node: n, rect: rect})
		if i == 0 {
			l.xmin, l.zmin, l.xmax, l.zmax = n.xmin, n.zmin, n.xmax, n.zmax
			continue
		}
		l.xmin = minF(l.xmin, n.xmin)
		l.zmin = minF(l.zmin, n.zmin)
		l.xmax = maxF(l.xmax, n.xmax)
		l.zmax = maxF(l.zmax, n.zmax)
	}
	return l, nil
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// Bounds is the layer's overall extent in world units, used to clamp
// incoming source/target points during Initialize.
func (l *NodeLayer) Bounds() (xmin, zmin, xmax, zmax float64) {
	return l.xmin * SquareSize, l.zmin * SquareSize, l.xmax * SquareSize, l.zmax * SquareSize
}

// MoveDef returns the movement class this layer serves.
func (l *NodeLayer) MoveDef() MoveDefID { return l.moveDef }

// NumNodes is the total node count, the N term of PathSearch.GetHash.
func (l *NodeLayer) NumNodes() int { return len(l.nodes) }

// GetNodes returns the layer's nodes ordered by node number.
func (l *NodeLayer) GetNodes() []*Node { return l.nodes }

// GetNode resolves the node covering the given terrain-square coordinate,
// or nil if the point falls outside every node in the layer.
func (l *NodeLayer) GetNode(sx, sz float64) *Node {
	// A tiny probe rect anchored at the point: the layer partitions space
	// without overlap, so the probe meets at most one node. The R-tree's
	// intersection test is strict, so a probe reaching forward from a point
	// on a node's max edge (e.g. a point clamped onto the layer's max bound)
	// misses that node; a second probe reaching back across the edge finds it.
	for _, off := range [2]float64{0, -1e-6} {
		rect, err := rtreego.NewRect(rtreego.Point{sx + off, sz + off}, []float64{1e-6, 1e-6})
		if err != nil {
			return nil
		}
		for _, res := range l.index.SearchIntersect(rect) {
			entry := res.(*nodeEntry)
			if entry.node.Contains(sx, sz) {
				return entry.node
			}
		}
	}
	return nil
}

// QueryRect returns every node whose extent intersects the given
// terrain-square rectangle; used by PathSearch's partial-search pruning
// (Iterate step 5) when a search rectangle bounds the request.
func (l *NodeLayer) QueryRect(xmin, zmin, xmax, zmax float64) []*Node {
	w, h := xmax-xmin, zmax-zmin
	if w <= 0 {
		w = 1e-6
	}
	if h <= 0 {
		h = 1e-6
	}
	rect, err := rtreego.NewRect(rtreego.Point{xmin, zmin}, []float64{w, h})
	if err != nil {
		return nil
	}
	res := l.index.SearchIntersect(rect)
	out := make([]*Node, 0, len(res))
	for _, r := range res {
		out = append(out, r.(*nodeEntry).node)
	}
	return out
}

// NextStateOffset reserves a fresh search-state base, at least 2 greater
// than the previous reservation (low bit 0 = OPEN, 1 = CLOSED).
func (l *NodeLayer) NextStateOffset() uint32 {
	l.nextStateOffset += 2
	return l.nextStateOffset
}

// CurrentMagic is the layer's terrain-change epoch.
func (l *NodeLayer) CurrentMagic() uint32 { return l.magicNumber }

// BumpMagic advances the layer's terrain-change epoch, the way a map-change
// notification would (map-change subscription itself is out of scope; the
// host calls this when it knows terrain under the layer changed). The new
// value reaches scratch entries only through the on-close stamp of
// ConservativeNeighborCacheUpdates; Iterate decides whether a node's scratch
// is current from its search state alone, so a bump does not change how a
// search treats existing scratch.
func (l *NodeLayer) BumpMagic() uint32 {
	l.magicNumber++
	return l.magicNumber
}
