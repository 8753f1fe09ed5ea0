package qtpfs

import (
	"github.com/paulmach/orb"
)

// Path is an ordered sequence of waypoints from a source to a target point,
// plus the bounding rectangle of those waypoints. Paths are owned by the
// PathCache once installed (spec §4.6); nothing outside the cache frees one.
type Path struct {
	id   int
	hash uint64

	points []Vec3

	sourcePoint Vec3
	targetPoint Vec3

	boundingBox orb.Bound
}

// NewPath creates an empty path with the given id/hash. It is populated by
// TracePath/SmoothPath during Finalize and only becomes immutable once
// installed in a PathCache.
func NewPath(id int, hash uint64) *Path {
	return &Path{id: id, hash: hash}
}

func (p *Path) ID() int       { return p.id }
func (p *Path) Hash() uint64  { return p.hash }

// AllocPoints reserves room for n waypoints, discarding any existing ones.
func (p *Path) AllocPoints(n int) { p.points = make([]Vec3, n) }

func (p *Path) SetPoint(i int, v Vec3) { p.points[i] = v }
func (p *Path) GetPoint(i int) Vec3    { return p.points[i] }
func (p *Path) NumPoints() int         { return len(p.points) }
func (p *Path) Points() []Vec3         { return p.points }

func (p *Path) SetSourcePoint(v Vec3) { p.sourcePoint = v }
func (p *Path) SetTargetPoint(v Vec3) { p.targetPoint = v }
func (p *Path) GetTargetPoint() Vec3  { return p.targetPoint }
func (p *Path) GetSourcePoint() Vec3  { return p.sourcePoint }

// CopyPoints overwrites only this path's waypoint list with other's,
// per spec §4.5 ("overwrite point list only" — source/target/bounding box
// are untouched, matching SharedFinalize adopting the destination's own
// endpoints).
func (p *Path) CopyPoints(other *Path) {
	p.points = make([]Vec3, len(other.points))
	copy(p.points, other.points)
}

// SetBoundingBox recomputes the bounding rectangle over every waypoint.
// Spec invariant: after this call, every waypoint lies inside BoundingBox().
func (p *Path) SetBoundingBox() {
	p.boundingBox = boundOf(p.points)
}

func (p *Path) BoundingBox() orb.Bound { return p.boundingBox }
