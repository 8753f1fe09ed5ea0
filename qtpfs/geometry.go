package qtpfs

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// PositiveInfinity is the move-cost value reserved for impassable terrain.
const PositiveInfinity = math.MaxFloat64

// SquareSize is the world-unit size of one terrain square.
const SquareSize = 8.0

// Vec3 is a world-space point. Only X and Z participate in planar distance
// and containment math; Y carries terrain height through for callers that
// render or collide against it.
type Vec3 struct {
	X, Y, Z float64
}

// Planar projects the point onto the X/Z plane for use with orb/planar.
func (v Vec3) Planar() orb.Point {
	return orb.Point{v.X, v.Z}
}

// VecFromPlanar rebuilds a Vec3 from a planar point, keeping the given height.
func VecFromPlanar(p orb.Point, y float64) Vec3 {
	return Vec3{X: p[0], Y: y, Z: p[1]}
}

// Distance is the Euclidean distance between two points on the X/Z plane.
func Distance(a, b Vec3) float64 {
	return planar.Distance(a.Planar(), b.Planar())
}

// sub returns a-b on the X/Z plane.
func (v Vec3) sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Z: v.Z - o.Z}
}

// normalized returns v scaled to unit length on the X/Z plane, or the zero
// vector if v is (numerically) zero-length. Safe against division by a
// near-zero magnitude.
func (v Vec3) normalized() Vec3 {
	lenSq := v.X*v.X + v.Z*v.Z
	if lenSq < 1e-12 {
		return Vec3{}
	}
	l := math.Sqrt(lenSq)
	return Vec3{X: v.X / l, Z: v.Z / l}
}

// dot is the planar dot product.
func dot(a, b Vec3) float64 {
	return a.X*b.X + a.Z*b.Z
}

func clamp(v, lo, hi float64) float64 {
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func safeDiv(n, d float64) float64 {
	if d < 0 {
		d = -d
	}
	if d < 0.001 {
		d = 0.001
	}
	return n / d
}

// boundOf returns the orb.Bound enclosing every point, extended point by
// point the way orb itself builds a MultiPoint's bound.
func boundOf(points []Vec3) orb.Bound {
	if len(points) == 0 {
		return orb.Bound{}
	}
	b := orb.Bound{Min: points[0].Planar(), Max: points[0].Planar()}
	for _, p := range points[1:] {
		b = b.Extend(p.Planar())
	}
	return b
}
