package qtpfs

// searchState low bits, per spec §3: OPEN=0, CLOSED=1, OR'd onto the
// search's base offset.
const (
	stateOpen   uint32 = 0
	stateClosed uint32 = 1
)

// pathCost selects one of a node's four per-search cost fields.
type pathCost int

const (
	costG pathCost = iota
	costH
	costF
	costM
)

// scratchEntry is one node's mutable per-search bookkeeping: everything
// spec.md's Node keeps as "scratch" fields, pulled off the node itself per
// the Design Notes re-architecture ("Per-node scratch shared across
// searches" -> an auxiliary vector indexed by node number, owned by the
// search driver, so Node stays immutable and safe to read concurrently
// across disjoint layers).
type scratchEntry struct {
	searchState  uint32
	magicNumber  uint32
	prevNode     int32 // node number, -1 for none
	g, h, f, m   float64
	numPrevNodes int32
	heapIndex    int // position in the owning BinaryHeap, -1 when not queued
}

// scratchPool is the per-layer array of scratchEntry, indexed by node
// number. It persists across searches; a search tells its own entries from
// older ones by comparing searchState against its state offset (isCurrent)
// rather than by clearing the array. stale also weighs magicNumber, but the
// search itself does not call it.
type scratchPool struct {
	entries []scratchEntry
}

func newScratchPool(n int) *scratchPool {
	p := &scratchPool{entries: make([]scratchEntry, n)}
	p.resetIndices()
	return p
}

func (p *scratchPool) resetIndices() {
	for i := range p.entries {
		p.entries[i].prevNode = -1
		p.entries[i].heapIndex = -1
	}
}

func (p *scratchPool) get(n *Node) *scratchEntry {
	return &p.entries[n.number]
}

// isCurrent reports whether this entry's scratch was written by the search
// identified by stateOffset (epoch isolation, spec testable property 8).
// This is the exact test Iterate uses when deciding whether a neighbour has
// already been touched this search.
func (e *scratchEntry) isCurrent(stateOffset uint32) bool {
	return e.searchState >= stateOffset
}

// stale is the broader invariant check of spec §3: scratch is stale (must
// be treated as absent on first touch) when its state predates the search
// OR its magic number predates the search's expected epoch.
func (e *scratchEntry) stale(stateOffset, magic uint32) bool {
	return e.searchState < stateOffset || e.magicNumber < magic
}

func (e *scratchEntry) isOpen(stateOffset uint32) bool {
	return e.searchState == stateOffset|stateOpen
}

func (e *scratchEntry) isClosed() bool {
	return e.searchState&1 == stateClosed
}

func (e *scratchEntry) cost(which pathCost) float64 {
	switch which {
	case costG:
		return e.g
	case costH:
		return e.h
	case costF:
		return e.f
	default:
		return e.m
	}
}
