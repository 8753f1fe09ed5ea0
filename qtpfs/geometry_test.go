package qtpfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance(t *testing.T) {
	a := Vec3{X: 0, Y: 5, Z: 0}
	b := Vec3{X: 3, Y: 99, Z: 4}
	assert.InDelta(t, 5.0, Distance(a, b), 1e-9, "Y must not participate in planar distance")
}

func TestVecNormalized(t *testing.T) {
	v := Vec3{X: 3, Z: 4}
	n := v.normalized()
	assert.InDelta(t, 0.6, n.X, 1e-9)
	assert.InDelta(t, 0.8, n.Z, 1e-9)

	zero := Vec3{}.normalized()
	assert.Equal(t, Vec3{}, zero, "zero-length vector normalizes to the zero vector, not NaN")
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1.0, clamp(-5, 1, 10))
	assert.Equal(t, 10.0, clamp(50, 1, 10))
	assert.Equal(t, 5.0, clamp(5, 1, 10))
}

func TestBoundOf(t *testing.T) {
	pts := []Vec3{{X: 0, Z: 0}, {X: 5, Z: -3}, {X: -2, Z: 8}}
	b := boundOf(pts)
	assert.Equal(t, -2.0, b.Min[0])
	assert.Equal(t, -3.0, b.Min[1])
	assert.Equal(t, 5.0, b.Max[0])
	assert.Equal(t, 8.0, b.Max[1])
}
