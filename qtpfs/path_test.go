package qtpfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathPointsRoundTrip(t *testing.T) {
	p := NewPath(1, 42)
	p.AllocPoints(3)
	p.SetPoint(0, Vec3{X: 0, Z: 0})
	p.SetPoint(1, Vec3{X: 1, Z: 1})
	p.SetPoint(2, Vec3{X: 2, Z: 2})

	assert.Equal(t, 3, p.NumPoints())
	assert.Equal(t, Vec3{X: 1, Z: 1}, p.GetPoint(1))
}

func TestPathBoundingBoxCoversAllPoints(t *testing.T) {
	p := NewPath(1, 1)
	p.AllocPoints(3)
	p.SetPoint(0, Vec3{X: -2, Z: 5})
	p.SetPoint(1, Vec3{X: 10, Z: -3})
	p.SetPoint(2, Vec3{X: 4, Z: 4})
	p.SetBoundingBox()

	box := p.BoundingBox()
	for i := 0; i < p.NumPoints(); i++ {
		pt := p.GetPoint(i)
		assert.True(t, box.Contains(pt.Planar()), "waypoint %d must lie within the bounding box", i)
	}
}

func TestPathCopyPointsOverwritesOnlyPoints(t *testing.T) {
	src := NewPath(1, 1)
	src.AllocPoints(2)
	src.SetPoint(0, Vec3{X: 0, Z: 0})
	src.SetPoint(1, Vec3{X: 9, Z: 9})

	dst := NewPath(2, 2)
	dst.SetSourcePoint(Vec3{X: -1, Z: -1})
	dst.SetTargetPoint(Vec3{X: 99, Z: 99})
	dst.CopyPoints(src)

	assert.Equal(t, src.Points(), dst.Points())
	assert.Equal(t, Vec3{X: -1, Z: -1}, dst.GetSourcePoint())
	assert.Equal(t, Vec3{X: 99, Z: 99}, dst.GetTargetPoint())
}
