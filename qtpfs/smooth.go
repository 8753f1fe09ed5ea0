package qtpfs

import "math"

// edgeSpan describes the shared edge a waypoint sits on: a fixed world
// coordinate on one axis and a movable range on the other, derived from
// the intersection of the two bordering nodes' extents.
type edgeSpan struct {
	vertical bool // true: fixed X, movable Z. false: fixed Z, movable X.
	fixed    float64
	lo, hi   float64
}

// edgeSpanBetween derives a's and b's shared edge. ok is false for corner
// neighbours (both horizontal and vertical bits set), which share only a
// point, not a movable edge.
func edgeSpanBetween(a, b *Node) (edgeSpan, bool) {
	rel := a.NeighborRelation(b)
	horiz := rel&(RelLeft|RelRight) != 0
	vert := rel&(RelTop|RelBottom) != 0
	if horiz == vert { // both set (corner) or neither (not adjacent)
		return edgeSpan{}, false
	}
	if horiz {
		lo, hi := overlapRange(a.zmin, a.zmax, b.zmin, b.zmax)
		fixedX := a.xmin
		if rel&RelRight != 0 {
			fixedX = a.xmax
		}
		return edgeSpan{vertical: true, fixed: fixedX * SquareSize, lo: lo * SquareSize, hi: hi * SquareSize}, true
	}
	lo, hi := overlapRange(a.xmin, a.xmax, b.xmin, b.xmax)
	fixedZ := a.zmin
	if rel&RelBottom != 0 {
		fixedZ = a.zmax
	}
	return edgeSpan{vertical: false, fixed: fixedZ * SquareSize, lo: lo * SquareSize, hi: hi * SquareSize}, true
}

func (e edgeSpan) point(scalar, y float64) Vec3 {
	if e.vertical {
		return Vec3{X: e.fixed, Y: y, Z: scalar}
	}
	return Vec3{X: scalar, Y: y, Z: e.fixed}
}

// lineIntersection finds where the straight line p0->p2 crosses this edge,
// reporting false if the line runs parallel to the edge or the crossing
// falls outside the movable range.
func (e edgeSpan) lineIntersection(p0, p2 Vec3, y float64) (Vec3, bool) {
	var denom, num float64
	if e.vertical {
		denom = p2.X - p0.X
		num = e.fixed - p0.X
	} else {
		denom = p2.Z - p0.Z
		num = e.fixed - p0.Z
	}
	if math.Abs(denom) < 1e-9 {
		return Vec3{}, false
	}
	t := num / denom
	var scalar float64
	if e.vertical {
		scalar = p0.Z + t*(p2.Z-p0.Z)
	} else {
		scalar = p0.X + t*(p2.X-p0.X)
	}
	if scalar < e.lo || scalar > e.hi {
		return Vec3{}, false
	}
	return e.point(scalar, y), true
}

// smoothPoints implements spec §4.4 SmoothPath in place, sweeping from the
// target end back to the source. points[0] is the source, points[len-1] is
// the target; edges[i] names the node pair points[i]'s shared edge lies on
// (zero value at the two fixed endpoints).
func smoothPoints(points []Vec3, edges []edgePair) {
	for i := len(points) - 2; i >= 1; i-- {
		p0, p1, p2 := points[i-1], points[i], points[i+1]

		d1 := p1.sub(p0).normalized()
		d2 := p2.sub(p1).normalized()
		origDot := dot(d1, d2)
		if origDot >= smoothCollinearDot {
			continue
		}

		pair := edges[i]
		if pair.a == nil || pair.b == nil {
			continue
		}
		span, ok := edgeSpanBetween(pair.a, pair.b)
		if !ok {
			continue // corner neighbour: no movable edge, leave p1 as-is
		}

		if newP, ok := span.lineIntersection(p0, p2, p1.Y); ok {
			nd1 := newP.sub(p0).normalized()
			nd2 := p2.sub(newP).normalized()
			if dot(nd1, nd2) >= origDot {
				points[i] = newP
				continue
			}
		}

		e0 := span.point(span.lo, p1.Y)
		e1 := span.point(span.hi, p1.Y)
		best, bestDot := p1, origDot
		for _, cand := range [2]Vec3{e0, e1} {
			cd1 := cand.sub(p0).normalized()
			cd2 := p2.sub(cand).normalized()
			if cdot := dot(cd1, cd2); cdot > bestDot {
				best, bestDot = cand, cdot
			}
		}
		points[i] = best
	}
}
