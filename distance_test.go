package voxcontour

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceTransform2DIsZeroOnForeground(t *testing.T) {
	g := NewGrid2D[byte](5, 5, 1, 1, 0, 0, IdentityDirection2D())
	g.Set(2, 2, 1)
	roi := Region2D{0, 4, 0, 4}
	out, err := DistanceTransform2D(g, 1, roi, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.At(2, 2))
}

func TestDistanceTransform2DGrowsWithChamferDistance(t *testing.T) {
	g := NewGrid2D[byte](7, 7, 1, 1, 0, 0, IdentityDirection2D())
	g.Set(3, 3, 1)
	roi := Region2D{0, 6, 0, 6}
	out, err := DistanceTransform2D(g, 1, roi, 2, nil)
	require.NoError(t, err)

	assert.InDelta(t, 1.0, out.At(4, 3), 1e-9)
	assert.InDelta(t, math.Sqrt2, out.At(4, 4), 1e-9)
	assert.InDelta(t, 3.0, out.At(6, 3), 1e-9)
}

func TestDistanceTransform2DRespectsSpacing(t *testing.T) {
	g := NewGrid2D[byte](5, 5, 2, 3, 0, 0, IdentityDirection2D())
	g.Set(2, 2, 1)
	roi := Region2D{0, 4, 0, 4}
	out, err := DistanceTransform2D(g, 1, roi, 1, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, out.At(3, 2), 1e-9)
	assert.InDelta(t, 3.0, out.At(2, 3), 1e-9)
}

func TestDistanceTransform2DLeavesOutsideRoiAtInfinity(t *testing.T) {
	g := NewGrid2D[byte](5, 5, 1, 1, 0, 0, IdentityDirection2D())
	g.Set(0, 0, 1)
	roi := Region2D{2, 4, 2, 4}
	out, err := DistanceTransform2D(g, 1, roi, 1, nil)
	require.NoError(t, err)
	assert.True(t, math.IsInf(out.At(3, 3), 1))
}

func TestDistanceTransform3DIsZeroOnForegroundAndGrowsOutward(t *testing.T) {
	g := NewGrid3D[byte](5, 5, 5, 1, 1, 1, 0, 0, 0, IdentityDirection3D())
	g.Set(2, 2, 2, 1)
	roi := Region3D{0, 4, 0, 4, 0, 4}
	out, err := DistanceTransform3D(g, 1, roi, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, out.At(2, 2, 2))
	assert.InDelta(t, 1.0, out.At(3, 2, 2), 1e-9)
	assert.InDelta(t, math.Sqrt(3), out.At(3, 3, 3), 1e-9)
}
